package config

// DockerClient provides Docker client parameters
type DockerClient struct {
	UseTLS      bool
	VerifyTLS   bool
	TLSCertPath string
	Host        string
	APIVersion  string
	Env         map[string]string
}

// AnalyzeParams provides the analyze command parameters
type AnalyzeParams struct {
	Target         string
	Type           string
	UseDockerCLI   bool
	DockerCLIPath  string
	HonorWhiteouts bool
	TempDir        string
}
