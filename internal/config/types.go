package config

// DeployConfig represents the complete deployment configuration
type DeployConfig struct {
	Version    string     `yaml:"version"`
	App        AppConfig  `yaml:"app"`
	Repository Repository `yaml:"repository"`
	Server     Server     `yaml:"server"`
	Remote     Remote     `yaml:"remote"`
}

// AppConfig contains application-specific settings
type AppConfig struct {
	Name    string `yaml:"name"`
	Port    int    `yaml:"port"`
	Domain  string `yaml:"domain,omitempty"`
	EnvFile string `yaml:"envFile,omitempty"`
}

// Repository contains git repository settings
type Repository struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
	// Token is the PAT used for HTTPS clones. It is only written to
	// the config file when the operator opts in during the wizard;
	// otherwise it stays in memory (or comes from DEPLOY_GIT_TOKEN).
	Token     string `yaml:"token,omitempty"`
	SaveToken bool   `yaml:"-"`
}

// Server contains SSH connection details for the target host
type Server struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	User   string `yaml:"user"`
	SSHKey string `yaml:"sshKey"`
}

// Remote contains remote filesystem layout settings
type Remote struct {
	// BasePath is the directory the project is synced into,
	// e.g. /opt/apps. The app lands in BasePath/<app name>.
	BasePath string `yaml:"basePath"`
}

// AppDir returns the remote directory the project is deployed into.
func (c *DeployConfig) AppDir() string {
	base := c.Remote.BasePath
	if base == "" {
		base = DefaultBasePath
	}
	for len(base) > 1 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + "/" + c.App.Name
}

// ContainerName returns the deployment's container name.
func (c *DeployConfig) ContainerName() string {
	return c.App.Name + "-app"
}

// ImageName returns the local image tag used for plain docker builds.
func (c *DeployConfig) ImageName() string {
	return c.App.Name + ":latest"
}
