/*
 * Copyright (C) 2025 Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 *
 */

package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/events"
	eventsCmd "github.com/nuts-foundation/nuts-signing/events/cmd"
	"github.com/nuts-foundation/nuts-signing/signing"
	signingAPI "github.com/nuts-foundation/nuts-signing/signing/api/v1"
	signingCmd "github.com/nuts-foundation/nuts-signing/signing/cmd"
	"github.com/nuts-foundation/nuts-signing/storage"
	storageCmd "github.com/nuts-foundation/nuts-signing/storage/cmd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var stdOutWriter io.Writer = os.Stdout

func createRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nuts-signing",
		Short: "Executable which runs the signing server or queries a running server.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
		SilenceUsage: true,
	}
}

func createPrintConfigCommand(system *core.System) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Prints the current config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := system.Load(cmd.Flags()); err != nil {
				return err
			}
			cmd.Println("Current system config")
			cmd.Println(system.Config.PrintConfig())
			return nil
		},
	}
}

func createServerCommand(system *core.System) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the signing server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := system.Load(cmd.Flags()); err != nil {
				return err
			}
			logrus.Info("Starting server with config:")
			logrus.Info(system.Config.PrintConfig())
			return startServer(cmd.Context(), system)
		},
	}
}

// startServer configures and starts the engines, then serves HTTP until the context is cancelled.
func startServer(ctx context.Context, system *core.System) error {
	// check config on all engines
	if err := system.Configure(); err != nil {
		return err
	}
	if err := system.Start(); err != nil {
		return err
	}
	defer func() {
		if err := system.Shutdown(); err != nil {
			logrus.WithError(err).Error("Error shutting down system")
		}
	}()

	echoServer, err := system.EchoCreator(system.Config.HTTP)
	if err != nil {
		return err
	}
	for _, router := range system.Routers {
		router.Routes(echoServer)
	}
	serverErrors := core.StartEchoServer(echoServer, system.Config.HTTP.Address)
	select {
	case <-ctx.Done():
		logrus.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := echoServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Unable to shut down HTTP server")
		}
		<-serverErrors
		return nil
	case err, ok := <-serverErrors:
		if !ok {
			return errors.New("HTTP server stopped unexpectedly")
		}
		return err
	}
}

// CreateCommand creates the command with all subcommands to run the system.
func CreateCommand(system *core.System) *cobra.Command {
	command := createRootCommand()
	command.SetOut(stdOutWriter)
	flags := command.PersistentFlags()
	flags.AddFlagSet(core.FlagSet())
	flags.AddFlagSet(storageCmd.FlagSet())
	flags.AddFlagSet(eventsCmd.FlagSet())
	flags.AddFlagSet(signingCmd.FlagSet())
	command.AddCommand(createServerCommand(system))
	command.AddCommand(createPrintConfigCommand(system))
	command.AddCommand(signingCmd.Cmd())
	return command
}

// CreateSystem creates the system and registers all default engines.
func CreateSystem() *core.System {
	system := core.NewSystem()
	// Create instances
	storageInstance := storage.New()
	eventManager := events.NewManager()
	signingInstance := signing.NewEngine(storageInstance, eventManager)
	statusEngine := core.NewStatusEngine(system)
	metricsEngine := core.NewMetricsEngine()

	// Register HTTP routes
	system.RegisterRoutes(statusEngine)
	system.RegisterRoutes(metricsEngine)
	system.RegisterRoutes(&signingAPI.Wrapper{Service: signingInstance})

	// Register engines
	system.RegisterEngine(statusEngine)
	system.RegisterEngine(metricsEngine)
	system.RegisterEngine(storageInstance)
	system.RegisterEngine(eventManager)
	system.RegisterEngine(signingInstance)
	return system
}

// Execute executes the root command. It blocks until the command finished or the context is cancelled.
func Execute(ctx context.Context, system *core.System) error {
	command := CreateCommand(system)
	return command.ExecuteContext(ctx)
}
