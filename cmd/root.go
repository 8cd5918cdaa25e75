package cmd

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/perkhub/perkhub/context"
	"github.com/perkhub/perkhub/perkhub"
)

const (
	flagAppName              = "app.name"
	flagAppURL               = "app.url"
	flagCookieHashKey        = "cookie.hash-key"
	flagCookieEncryptKey     = "cookie.encrypt-key"
	flagDatabaseHost         = "database.hostname"
	flagDatabasePort         = "database.port"
	flagDatabaseUser         = "database.username"
	flagDatabasePass         = "database.password"
	flagDatabaseName         = "database.db"
	flagDatabasePool         = "database.pool"
	flagHostName             = "host.name"
	flagHostPort             = "host.port"
	flagHostHTTPSEnabled     = "host.https-enabled"
	flagHostHTTPSCacheDir    = "host.https-cache-dir"
	flagAdminUsername        = "admin.admin-username"
	flagAdminPassword        = "admin.admin-password"
	flagParamsReferralReward = "params.referral-reward-points"
	flagParamsReviewReward   = "params.review-reward-points"
)

var (
	// Used for flags.
	configFile string

	rootCmd = &cobra.Command{
		Use:   "perkhubd",
		Short: "PerkHub API command-line interface",
	}
)

// Execute executes the root command.
func Execute() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(startCmd())
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file")

	err := rootCmd.Execute()
	if err != nil {
		fmt.Printf("Failed executing CLI command: %s, exiting...\n", err)
		os.Exit(1)
	}
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start API daemon, a local HTTP server",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var config context.Config
			err = viper.Unmarshal(&config)
			if err != nil {
				panic(err)
			}

			apiCtx := context.NewAPIContext(config)
			perkAPI := perkhub.NewPerkAPI(apiCtx)
			perkAPI.RegisterRoutes(apiCtx)

			port := strconv.Itoa(apiCtx.Config.Host.Port)
			apiCtx.Logger.Infof("serving on %s", net.JoinHostPort(apiCtx.Config.Host.Name, port))
			log.Fatal(perkAPI.ListenAndServe(net.JoinHostPort(apiCtx.Config.Host.Name, port)))

			return err
		},
	}

	cmd = registerAppFlags(cmd)
	cmd = registerCookieFlags(cmd)
	cmd = registerDatabaseFlags(cmd)
	cmd = registerHostFlags(cmd)
	cmd = registerAdminFlags(cmd)
	cmd = registerParamsFlags(cmd)

	return cmd
}

func registerAppFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagAppName, "PerkHub", "Name of the app")
	viper.BindPFlag(flagAppName, cmd.Flags().Lookup(flagAppName))

	cmd.Flags().String(flagAppURL, "http://localhost:3000", "URL for the app")
	viper.BindPFlag(flagAppURL, cmd.Flags().Lookup(flagAppURL))

	return cmd
}

func registerCookieFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagCookieHashKey, "", "Hash key of cookie")
	viper.BindPFlag(flagCookieHashKey, cmd.Flags().Lookup(flagCookieHashKey))

	cmd.Flags().String(flagCookieEncryptKey, "", "Encrypt key of cookie")
	viper.BindPFlag(flagCookieEncryptKey, cmd.Flags().Lookup(flagCookieEncryptKey))

	return cmd
}

func registerDatabaseFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagDatabaseHost, "0.0.0.0", "Database host name")
	viper.BindPFlag(flagDatabaseHost, cmd.Flags().Lookup(flagDatabaseHost))

	cmd.Flags().Int(flagDatabasePort, 5432, "Database port number")
	viper.BindPFlag(flagDatabasePort, cmd.Flags().Lookup(flagDatabasePort))

	cmd.Flags().String(flagDatabaseUser, "postgres", "Database username")
	viper.BindPFlag(flagDatabaseUser, cmd.Flags().Lookup(flagDatabaseUser))

	cmd.Flags().String(flagDatabasePass, "", "Database password")
	viper.BindPFlag(flagDatabasePass, cmd.Flags().Lookup(flagDatabasePass))

	cmd.Flags().String(flagDatabaseName, "perkhub", "Database name")
	viper.BindPFlag(flagDatabaseName, cmd.Flags().Lookup(flagDatabaseName))

	cmd.Flags().Int(flagDatabasePool, 25, "Database connection pool size")
	viper.BindPFlag(flagDatabasePool, cmd.Flags().Lookup(flagDatabasePool))

	return cmd
}

func registerHostFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagHostName, "0.0.0.0", "Server host")
	viper.BindPFlag(flagHostName, cmd.Flags().Lookup(flagHostName))

	cmd.Flags().Int(flagHostPort, 1337, "Server port")
	viper.BindPFlag(flagHostPort, cmd.Flags().Lookup(flagHostPort))

	cmd.Flags().Bool(flagHostHTTPSEnabled, false, "HTTPS enabled")
	viper.BindPFlag(flagHostHTTPSEnabled, cmd.Flags().Lookup(flagHostHTTPSEnabled))

	cmd.Flags().String(flagHostHTTPSCacheDir, "./certs", "HTTPS cache directory")
	viper.BindPFlag(flagHostHTTPSCacheDir, cmd.Flags().Lookup(flagHostHTTPSCacheDir))

	return cmd
}

func registerAdminFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagAdminUsername, "admin", "Admin username for the operator endpoints")
	viper.BindPFlag(flagAdminUsername, cmd.Flags().Lookup(flagAdminUsername))

	cmd.Flags().String(flagAdminPassword, "", "Admin password for the operator endpoints")
	viper.BindPFlag(flagAdminPassword, cmd.Flags().Lookup(flagAdminPassword))

	return cmd
}

func registerParamsFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().Int64(flagParamsReferralReward, 100, "Points credited to a referrer per signup")
	viper.BindPFlag(flagParamsReferralReward, cmd.Flags().Lookup(flagParamsReferralReward))

	cmd.Flags().Int64(flagParamsReviewReward, 25, "Points credited per approved review")
	viper.BindPFlag(flagParamsReviewReward, cmd.Flags().Lookup(flagParamsReviewReward))

	return cmd
}

func initConfig() {
	_ = godotenv.Load()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		viper.AddConfigPath(home)
		viper.SetConfigName(".perkhubd/config")
	}

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Can't read config: %s. Using flags, environment variables, or defaults.\n", err)
	}
}
