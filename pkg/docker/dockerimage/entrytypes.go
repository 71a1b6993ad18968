package dockerimage

import (
	"archive/tar"
	"fmt"
)

const (
	DirType      = "dir"
	FileType     = "file"
	SymlinkType  = "symlink"
	HardlinkType = "hardlink"
)

// ObjectTypeFromTarType maps a tar header type flag to a filesystem object type name
func ObjectTypeFromTarType(flag byte) string {
	switch flag {
	case tar.TypeDir:
		return DirType
	case tar.TypeReg:
		return FileType
	case tar.TypeSymlink:
		return SymlinkType
	case tar.TypeLink:
		return HardlinkType
	default:
		return fmt.Sprintf("other(%v)", flag)
	}
}
