package cmd

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"geosleuth/config"
	"geosleuth/logger"
)

var rootCmd = &cobra.Command{
	Use:   "geosleuth",
	Short: "geolocation agents for OSINT work",
	Long: `
geosleuth finds where things are: it extracts place names from text, reads the
GPS position stored in an image's EXIF metadata and geocodes place names to
coordinates. Run "geosleuth serve" for the HTTP agents, or call one agent
directly from the command line.
`,
	SilenceUsage: true,
}

var Version = "dev"

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and installs the default logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cfg.AppEnv)
	slog.SetDefault(log)

	switch {
	case cfg.GinMode != "":
		gin.SetMode(cfg.GinMode)
	case cfg.AppEnv == "production":
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg, log, nil
}
