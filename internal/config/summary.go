package config

import (
	"fmt"
	"strings"
)

// ShowSummary prints the collected configuration. The token is shown
// only as a presence marker.
func ShowSummary(cfg *DeployConfig) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("🎉 Configuration Summary")
	fmt.Println(strings.Repeat("=", 50))

	fmt.Printf("\n📱 Application: %s\n", cfg.App.Name)
	fmt.Printf("🌐 App port: %d (proxied from port 80)\n", cfg.App.Port)
	if cfg.App.Domain != "" {
		fmt.Printf("🔗 Server name: %s\n", cfg.App.Domain)
	}

	fmt.Printf("\n📦 Repository: %s (%s)\n", cfg.Repository.URL, cfg.Repository.Branch)
	if cfg.Repository.Token != "" {
		fmt.Println("🔑 Token: provided (hidden)")
	}

	fmt.Printf("\n🚀 Target host: %s@%s:%d\n", cfg.Server.User, cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("🔐 SSH key: %s\n", cfg.Server.SSHKey)
	fmt.Printf("📂 Remote app dir: %s\n", cfg.AppDir())

	fmt.Println("\n" + strings.Repeat("=", 50))
}
