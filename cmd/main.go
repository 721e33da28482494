/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blnkfinance/bank"
	"github.com/blnkfinance/bank/config"
	"github.com/blnkfinance/bank/database"
	"github.com/blnkfinance/bank/internal/notification"
)

// Bank is the CLI application.
type Bank struct {
	cmd *cobra.Command
}

// bankInstance carries the core and its configuration into every command.
type bankInstance struct {
	bank *bank.Bank
	cnf  *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration file and builds the core before any command runs.
func preRun(app *bankInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		// migrations and config printing need no redis or providers
		if cmd.Name() == "config" || (cmd.HasParent() && cmd.Parent().Name() == "migrate") {
			app.cnf = cnf
			return nil
		}

		newBank, err := setupBank(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.bank = newBank
		app.cnf = cnf
		return nil
	}
}

func setupBank(cfg *config.Configuration) (*bank.Bank, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newBank, err := bank.NewBank(db)
	if err != nil {
		return nil, fmt.Errorf("error creating bank: %v", err)
	}
	return newBank, nil
}

func NewCLI() *Bank {
	var configFile string
	b := &bankInstance{}

	var rootCmd = &cobra.Command{
		Use:   "bank",
		Short: "Bank back-office core",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./bank.json", "Configuration file for the bank server")
	rootCmd.PersistentPreRunE = preRun(b, &configFile)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(migrateCommands(b))
	rootCmd.AddCommand(configCommands(b))

	return &Bank{cmd: rootCmd}
}

func (w Bank) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
