package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BrunoTulio/mongopher/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initOutputPath string
	initForce      bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default mongopher.yaml",
	Long: `Creates a default configuration file with examples.

By default, creates mongopher.yaml in the current directory.
Use -o to specify a custom output path.

Examples:
  # Create mongopher.yaml in current directory
  mongopher init

  # Create in specific location
  mongopher init -o /etc/mongopher/mongopher.yaml`,
	Run: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", "", "Output file path (default: ./mongopher.yaml)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite without asking")
}

func runInit(cmd *cobra.Command, args []string) {
	log.Info("Starting config initialization")

	outputPath := initOutputPath
	if outputPath == "" {
		outputPath = "./mongopher.yaml"
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		log.Fatalf("Invalid output path %s, error %v", outputPath, err)
	}

	log.Debugf("Output path resolved %s", absPath)

	if utils.FileExists(absPath) && !initForce {
		log.Warnf("Config file already exists %s", absPath)
		fmt.Printf("⚠️  Config file already exists: %s\n", absPath)

		if !utils.AskConfirmation(os.Stdin, os.Stdout, "Overwrite? (y/N)") {
			log.Info("User cancelled")
			fmt.Println("❌ Cancelled")
			return
		}
	}
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Failed to create directory %s, error %v", dir, err)
	}
	log.Debugf("Directory created %s", dir)

	// The file holds secrets once filled in.
	if err := os.WriteFile(absPath, []byte(configDefault), 0600); err != nil {
		log.Fatalf("Failed to write config file %s, error %v", absPath, err)
	}

	log.Infof("Config file created successfully %s", absPath)
	fmt.Printf("✅ Config file created: %s\n", absPath)

	printNextSteps(absPath)
}

func printNextSteps(configPath string) {
	fmt.Println("\n📝 Next steps:")
	fmt.Println("   1. Edit config (mongo.uri, google credentials):")
	fmt.Printf("      nano %s\n", configPath)
	fmt.Println("\n   2. Generate an OAuth refresh token (if not using a service account):")
	fmt.Println("      mongopher auth --save")
	fmt.Println("\n   3. Check configuration:")
	fmt.Println("      mongopher status")
	fmt.Println("\n   4. Test backup:")
	fmt.Println("      mongopher backup")
	fmt.Println("\n   5. Start daemon:")
	fmt.Println("      mongopher daemon")
}
