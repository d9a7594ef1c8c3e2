package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/pmicheck/internal/cache"
	"github.com/ppiankov/pmicheck/internal/eligibility"
	"github.com/ppiankov/pmicheck/internal/llm"
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const version = "0.1.0"

var (
	cfgFile string
	envFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pmicheck",
	Short: "pmicheck - PMI cancellation eligibility survey",
	Long: `pmicheck walks a homeowner through a short mortgage survey and asks
the PMI cancellation service whether private mortgage insurance can be
dropped.

The survey runs in the browser (serve), in the terminal (ask), or from
answers files (check, batch).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pmicheck v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.pmicheck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default: .env if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and PMICHECK_* variables
func initConfig() {
	loadDotenv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.pmicheck")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := bindEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv registers the defaults and maps PMICHECK_ELIGIBILITY_BASE_URL
// style variables onto eligibility.base_url keys.
func bindEnv() error {
	if err := setDefaults(model.DefaultConfig()); err != nil {
		return err
	}
	viper.SetEnvPrefix("PMICHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("llm.api_key", "PMICHECK_LLM_API_KEY", "OPENAI_API_KEY")
	// omitempty keys are missing from the defaults tree
	for _, key := range []string{"eligibility.http_proxy", "eligibility.https_proxy", "eligibility.no_proxy", "llm.base_url"} {
		_ = viper.BindEnv(key)
	}
	return nil
}

func loadDotenv() {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", envFile, err)
		}
		return
	}
	// .env is optional
	_ = godotenv.Load()
}

// setDefaults registers every key of cfg with viper so AutomaticEnv can
// override keys the config file never mentions.
func setDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	setDefaultTree("", tree)
	return nil
}

func setDefaultTree(prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			setDefaultTree(key, sub)
			continue
		}
		viper.SetDefault(key, v)
	}
}

// loadConfig returns the effective configuration
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// logger is shared by every command; its level follows --verbose and
// output.verbose once the config is loaded
var logger = util.NewLogger(false)

func newLogger(cfg *model.Config) *util.Logger {
	logger.SetVerbose(cfg.Output.Verbose || verbose)
	slog.SetDefault(logger.Slog())
	return logger
}

// newChecker builds the scoring client with its optional response cache
// and outbound limiter.
func newChecker(cfg *model.Config, log *util.Logger, limiter eligibility.Limiter) (*eligibility.Client, error) {
	opts := []eligibility.Option{eligibility.WithLogger(log)}
	if cfg.Cache.Enabled {
		c, err := cache.New(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		opts = append(opts, eligibility.WithCache(c, cfg.Cache.TTL))
	}
	if limiter != nil {
		opts = append(opts, eligibility.WithLimiter(limiter))
	}
	client, err := eligibility.NewClient(cfg.Eligibility, opts...)
	if err != nil {
		return nil, fmt.Errorf("eligibility client: %w", err)
	}
	log.Debug("scoring endpoint: %s", client.Endpoint())
	return client, nil
}

// newSummarizer returns nil when no LLM provider is configured
func newSummarizer(cfg *model.Config, log *util.Logger) (*llm.Summarizer, error) {
	if cfg.LLM.Provider == "" {
		return nil, nil
	}
	s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	log.Debug("explanations enabled via %s", s.ProviderName())
	return s, nil
}
