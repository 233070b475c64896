package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"homeshare/internal/config"
	"homeshare/internal/httpserver"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "homeshare",
		Short: "Serve a directory tree over HTTP for browsing and uploads",
		Long: `homeshare exposes one directory tree (by default your home directory)
over HTTP: directories render as browsable listing pages, files are served
raw, and multipart POSTs upload files into the tree.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.homeshare.yaml)")

	rootCmd.Flags().StringP("addr", "a", "0.0.0.0:8000", "listen address")
	rootCmd.Flags().StringP("root", "r", "", "directory to serve (default: home directory)")
	rootCmd.Flags().String("state-dir", "", "state dir for the thumbnail cache (default: <root>/.homeshare)")
	rootCmd.Flags().Int64("max-upload-bytes", 0, "per-file upload size limit in bytes (0 = unlimited)")
	rootCmd.Flags().Int("max-upload-files", 0, "per-request upload count limit (0 = unlimited)")

	viper.BindPFlag("addr", rootCmd.Flags().Lookup("addr"))
	viper.BindPFlag("root", rootCmd.Flags().Lookup("root"))
	viper.BindPFlag("state_dir", rootCmd.Flags().Lookup("state-dir"))
	viper.BindPFlag("max_upload_bytes", rootCmd.Flags().Lookup("max-upload-bytes"))
	viper.BindPFlag("max_upload_files", rootCmd.Flags().Lookup("max-upload-files"))

	viper.BindEnv("addr", "HOMESHARE_ADDR")
	viper.BindEnv("root", "HOMESHARE_ROOT")
	viper.BindEnv("state_dir", "HOMESHARE_STATE_DIR")
	viper.BindEnv("max_upload_bytes", "HOMESHARE_MAX_UPLOAD_BYTES")
	viper.BindEnv("max_upload_files", "HOMESHARE_MAX_UPLOAD_FILES")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".homeshare")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Options{Config: cfg})
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	log.Printf("homeshare listening on http://%s (root=%s)", cfg.Addr, cfg.Root)
	return srv.Start()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
