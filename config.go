package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	summaryModerator = "moderator"
	summaryBroadcast = "broadcast"
)

type Config struct {
	adminUser          string
	bind               string
	callbackURL        string
	gracePeriod        time.Duration
	port               int
	prefix             string
	profile            bool
	sessionSecret      string
	summaryVisibility  string
	tlsCert            string
	tlsKey             string
	twitchClientID     string
	twitchClientSecret string
	verbose            bool
	version            bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.gracePeriod < 0 {
		return fmt.Errorf("invalid grace period: %s", c.gracePeriod)
	}
	if c.summaryVisibility != summaryModerator && c.summaryVisibility != summaryBroadcast {
		return fmt.Errorf("invalid summary visibility (must be %q or %q): %q",
			summaryModerator, summaryBroadcast, c.summaryVisibility)
	}
	if c.adminUser == "" {
		return errors.New("--admin-user must be provided")
	}
	if c.sessionSecret == "" {
		return errors.New("--session-secret must be provided")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("LDMN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "ldmn-game",
		Short:         "A live-show imposter drawing game, coordinated over websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.adminUser, "admin-user", "", "login of the administrator identity (env: LDMN_ADMIN_USER)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: LDMN_BIND)")
	fs.StringVar(&cfg.callbackURL, "callback-url", "", "OAuth callback URL registered with the identity provider (env: LDMN_CALLBACK_URL)")
	fs.DurationVar(&cfg.gracePeriod, "grace-period", 5*time.Second, "time before a dropped connection's player is removed (env: LDMN_GRACE_PERIOD)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: LDMN_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: LDMN_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: LDMN_PROFILE)")
	fs.StringVar(&cfg.sessionSecret, "session-secret", "", "key used to sign session cookies (env: LDMN_SESSION_SECRET)")
	fs.StringVar(&cfg.summaryVisibility, "summary-visibility", summaryModerator, "who receives round summaries, either moderator or broadcast (env: LDMN_SUMMARY_VISIBILITY)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: LDMN_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: LDMN_TLS_KEY)")
	fs.StringVar(&cfg.twitchClientID, "twitch-client-id", "", "Twitch application client ID (env: LDMN_TWITCH_CLIENT_ID)")
	fs.StringVar(&cfg.twitchClientSecret, "twitch-client-secret", "", "Twitch application client secret (env: LDMN_TWITCH_CLIENT_SECRET)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: LDMN_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: LDMN_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("ldmn-game v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
