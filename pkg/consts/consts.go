package consts

// App version constants
const (
	AppName        = "imgpkg"
	AppVersionName = "Inventory"
)

// Other constants that external users/consumers will see
const (
	IssuesURL = "https://github.com/slimtoolkit/imgpkg/issues"
)
