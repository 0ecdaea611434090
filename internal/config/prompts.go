package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
)

var clog = logger.PackageLogger("config", "🔧 CONFIG")

// InteractiveConfigPrompt walks the operator through every deployment
// setting and returns a populated configuration.
func InteractiveConfigPrompt(reader *bufio.Reader) (*DeployConfig, error) {
	cfg := &DeployConfig{Version: "1.0"}

	fmt.Println("\n✨ Welcome to the deployctl Configuration Wizard ✨")
	fmt.Println("We'll walk through each setting step by step. Press Enter to accept defaults.")

	fmt.Println("\n📱 Application Settings")
	fmt.Println("----------------------")
	cfg.App = promptAppConfig(reader)

	fmt.Println("\n📦 Repository Settings")
	fmt.Println("----------------------")
	cfg.Repository = promptRepositoryConfig(reader)

	fmt.Println("\n🖥️  Server Settings")
	fmt.Println("----------------------")
	cfg.Server = promptServerConfig(reader)

	fmt.Println("\n📂 Remote Path Settings")
	fmt.Println("----------------------")
	cfg.Remote = promptRemoteConfig(reader)

	ShowSummary(cfg)

	if !promptYesNo(reader, "Does this configuration look correct?", true) {
		clog.Info("Restarting configuration...")
		return InteractiveConfigPrompt(reader)
	}

	return cfg, nil
}

// FillMissing prompts only for the fields the loaded config leaves
// empty, so a partial deployctl.yml still deploys without re-running
// the whole wizard.
func FillMissing(cfg *DeployConfig, reader *bufio.Reader) {
	if cfg.App.Name == "" {
		fmt.Printf("%s Application name (e.g. 'my-web-app'): ", EmojiInput)
		cfg.App.Name = readRequiredInput(reader, "application name")
	}
	if cfg.Repository.URL == "" {
		fmt.Printf("%s Git repository URL (HTTPS): ", EmojiInput)
		cfg.Repository.URL = readRequiredInput(reader, "repository URL")
	}
	if cfg.Repository.Token == "" && needsToken(cfg.Repository.URL) {
		cfg.Repository.Token = promptToken()
	}
	if cfg.Server.Host == "" {
		fmt.Printf("%s Server hostname or IP: ", EmojiNetwork)
		cfg.Server.Host = readRequiredInput(reader, "server host")
	}
	if cfg.Server.User == "" {
		fmt.Printf("%s SSH username: ", EmojiNetwork)
		cfg.Server.User = readRequiredInput(reader, "SSH username")
	}
	if cfg.Server.SSHKey == "" {
		fmt.Printf("%s Path to SSH private key: ", EmojiNetwork)
		cfg.Server.SSHKey = readRequiredInput(reader, "SSH key path")
	}
	applyDefaults(cfg)
}

func promptAppConfig(reader *bufio.Reader) AppConfig {
	fmt.Printf("\n%s What's your application name? (e.g., 'my-web-app')\n", EmojiInput)
	fmt.Println("Used for the container name, image tag and remote directory.")
	name := readRequiredInput(reader, "application name")

	fmt.Printf("\n%s Which port does your app listen on? (default: %d)\n", EmojiInput, DefaultPort)
	fmt.Println("nginx will reverse-proxy port 80 to this port.")
	portStr := readInputWithDefault(reader, strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		fmt.Printf("%s Invalid port %q, using default %d\n", EmojiWarning, portStr, DefaultPort)
		port = DefaultPort
	}

	fmt.Printf("\n%s Server name for nginx (domain or IP, leave empty for catch-all):\n", EmojiNetwork)
	domain, _ := reader.ReadString('\n')

	return AppConfig{
		Name:   strings.ToLower(strings.TrimSpace(name)),
		Port:   port,
		Domain: strings.TrimSpace(domain),
	}
}

func promptRepositoryConfig(reader *bufio.Reader) Repository {
	fmt.Printf("\n%s Git repository URL (HTTPS):\n", EmojiInput)
	fmt.Println("Example: https://github.com/yourname/your-repo.git")
	url := readRequiredInput(reader, "repository URL")

	fmt.Printf("\n%s Which branch should we deploy from? (default: %s)\n", EmojiInput, DefaultBranch)
	branch := readInputWithDefault(reader, DefaultBranch)

	repo := Repository{
		URL:    strings.TrimSpace(url),
		Branch: strings.TrimSpace(branch),
	}

	if needsToken(repo.URL) {
		repo.Token = promptToken()
		if repo.Token != "" {
			repo.SaveToken = promptYesNo(reader,
				"Save the token into deployctl.yml? (otherwise export DEPLOY_GIT_TOKEN before each run)", false)
		}
	}

	return repo
}

func promptServerConfig(reader *bufio.Reader) Server {
	fmt.Printf("\n%s Server hostname or IP address:\n", EmojiNetwork)
	fmt.Println("This is the single host your application will be deployed to.")
	host := readRequiredInput(reader, "server host")

	fmt.Printf("\n%s SSH port (default: %d)\n", EmojiNetwork, DefaultSSHPort)
	portStr := readInputWithDefault(reader, strconv.Itoa(DefaultSSHPort))
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		fmt.Printf("%s Invalid port %q, using default %d\n", EmojiWarning, portStr, DefaultSSHPort)
		port = DefaultSSHPort
	}

	fmt.Printf("\n%s SSH username for deployment:\n", EmojiNetwork)
	fmt.Println("This user should be able to run docker and sudo on the host.")
	user := readRequiredInput(reader, "SSH username")

	fmt.Printf("\n%s Path to SSH private key:\n", EmojiNetwork)
	fmt.Println("Example: ~/.ssh/id_rsa or /home/user/.ssh/deploy_key")
	sshKey := readRequiredInput(reader, "SSH key path")

	return Server{
		Host:   strings.TrimSpace(host),
		Port:   port,
		User:   strings.TrimSpace(user),
		SSHKey: strings.TrimSpace(sshKey),
	}
}

func promptRemoteConfig(reader *bufio.Reader) Remote {
	fmt.Printf("\n%s Remote base path for deployments (default: %s)\n", EmojiInput, DefaultBasePath)
	fmt.Println("Your project is synced into <base path>/<app name>.")
	base := readInputWithDefault(reader, DefaultBasePath)

	return Remote{BasePath: strings.TrimSpace(base)}
}

// promptToken reads the PAT without echoing it. Falls back to
// DEPLOY_GIT_TOKEN when the terminal read is unavailable (piped input).
func promptToken() string {
	fmt.Printf("\n%s Personal Access Token for HTTPS clone (input hidden, empty for public repos): ", EmojiImportant)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		if env := os.Getenv("DEPLOY_GIT_TOKEN"); env != "" {
			clog.Info("Using token from DEPLOY_GIT_TOKEN")
			return env
		}
		clog.Warn("Could not read token from terminal: %v", err)
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func needsToken(url string) bool {
	return strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")
}

// Helper function for required input
func readRequiredInput(reader *bufio.Reader, fieldName string) string {
	for {
		fmt.Printf("> ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" {
			return input
		}
		fmt.Printf("%s %s is required. Please enter a value.\n", EmojiWarning, fieldName)
	}
}

// Helper function for input with default
func readInputWithDefault(reader *bufio.Reader, defaultValue string) string {
	fmt.Printf("(default: %s) > ", defaultValue)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue
	}
	return input
}

func promptYesNo(reader *bufio.Reader, question string, defaultYes bool) bool {
	options := "(y/N)"
	if defaultYes {
		options = "(Y/n)"
	}

	for {
		fmt.Printf("\n%s %s %s: ", EmojiQuestion, question, options)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))

		if answer == "" {
			return defaultYes
		}
		if answer == "y" || answer == "yes" {
			return true
		}
		if answer == "n" || answer == "no" {
			return false
		}
		fmt.Printf("%s Please answer with 'y' or 'n'\n", EmojiWarning)
	}
}
