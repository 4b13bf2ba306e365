package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/chrissnell/routedelay/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	yamlConfig, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	// Load SQLite configuration
	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	ok := true
	ok = compare("Dataset", yamlConfig.Dataset, sqliteConfig.Dataset) && ok
	ok = compare("Weather enabled", yamlConfig.Weather.IsEnabled(), sqliteConfig.Weather.IsEnabled()) && ok
	ok = compare("Weather endpoint", yamlConfig.Weather.APIEndpoint, sqliteConfig.Weather.APIEndpoint) && ok
	ok = compare("Weather timeout", yamlConfig.Weather.Timeout, sqliteConfig.Weather.Timeout) && ok
	ok = compare("Controllers", yamlConfig.Controllers, sqliteConfig.Controllers) && ok

	if !ok {
		fmt.Println("\n✗ Configurations differ")
		os.Exit(1)
	}
	fmt.Println("\n✓ Configurations match")
}

func compare(name string, yamlValue, sqliteValue any) bool {
	if reflect.DeepEqual(yamlValue, sqliteValue) {
		fmt.Printf("✓ %s matches\n", name)
		return true
	}
	fmt.Printf("✗ %s mismatch\n    YAML:   %+v\n    SQLite: %+v\n", name, yamlValue, sqliteValue)
	return false
}
