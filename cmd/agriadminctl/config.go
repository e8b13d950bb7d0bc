package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agribizboost/agriadmin/internal/client"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ctlConfig is the resolved CLI configuration. Precedence: flags, then
// AGRIADMINCTL_* environment, then config.yaml, then defaults.
type ctlConfig struct {
	APIURL      string
	TokenFile   string
	DownloadDir string
	Timeout     time.Duration
	Verbose     bool
}

// addGlobalFlags registers the flags every subcommand accepts.
func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config.yaml")
	fs.String("api-url", "", "admin API base URL")
	fs.String("token-file", "", "where the session tokens are kept")
	fs.String("out-dir", "", "directory for --export files (default ~/Downloads)")
	fs.Duration("timeout", 0, "per-request timeout")
	fs.BoolP("verbose", "v", false, "log API traffic to stderr")
	fs.StringP("export", "e", "", "also save the page as csv, json or txt")
}

var flagKeys = map[string]string{
	"api_url":      "api-url",
	"token_file":   "token-file",
	"download_dir": "out-dir",
	"timeout":      "timeout",
	"verbose":      "verbose",
}

func loadConfig(fs *pflag.FlagSet) (ctlConfig, error) {
	v := viper.New()
	v.SetDefault("api_url", client.DefaultBaseURL)
	v.SetDefault("timeout", client.DefaultTimeout)

	v.SetEnvPrefix("AGRIADMINCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "agriadminctl"))
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return ctlConfig{}, err
		}
	}

	for key, flag := range flagKeys {
		if f := fs.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return ctlConfig{}, err
			}
		}
	}

	cfg := ctlConfig{
		APIURL:      v.GetString("api_url"),
		TokenFile:   v.GetString("token_file"),
		DownloadDir: v.GetString("download_dir"),
		Timeout:     v.GetDuration("timeout"),
		Verbose:     v.GetBool("verbose"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = client.DefaultTimeout
	}
	return cfg, nil
}
