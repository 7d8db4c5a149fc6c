package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/partylines/analysis/internal/ingestion"
	appLogger "github.com/partylines/analysis/pkg/logger"
)

func NormalizeCmd() *cobra.Command {
	var tweet bool

	cmd := &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Print the tokens the classifier would see for some text",
		Long: "Normalize the text given as arguments, or each line of standard input when no\n" +
			"arguments are given. With --tweet the text is cleaned of byte-string markers,\n" +
			"escape artifacts, emoji and links first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			defer appLogger.Sync()

			normalizer, err := ingestion.NewNormalizer(ingestion.Options{Retain: cfg.Normalizer.Retain})
			if err != nil {
				return err
			}
			cleaner := ingestion.NewCleaner(escapes(cfg.Cleaning.Escapes))

			emit := func(text string) {
				if tweet {
					text = cleaner.Clean(text)
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(normalizer.Normalize(text), " "))
			}

			if len(args) > 0 {
				emit(strings.Join(args, " "))
				return nil
			}

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				emit(scanner.Text())
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&tweet, "tweet", false, "clean tweet artifacts before normalizing")
	return cmd
}
