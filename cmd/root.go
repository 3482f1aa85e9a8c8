package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alturino/bookstore/internal/common/constants"
	"github.com/Alturino/bookstore/internal/log"
	storefront "github.com/Alturino/bookstore/storefront/cmd"
)

func Start() {
	logger := log.Get("/var/log/bookstore.log", os.Getenv("ENV")).
		With().
		Str(log.KeyAppName, constants.APP_MAIN_BOOKSTORE).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "bookstore"}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "storefront",
		Short: "Run the storefront",
		Run: func(cmd *cobra.Command, args []string) {
			storefront.RunStorefront(cmd.Context())
		},
	})
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
