package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/linusng/cardsense/internal/classify"
	"github.com/linusng/cardsense/internal/matcher"
)

func classifyCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Classify merchant names from a file in bulk",
		Long: `Classify merchant names read from a file, one per line.
Results are written as CSV: merchant, category, category name, source,
confidence. Remote classifier calls are retried with backoff; merchants
the classifier cannot resolve fall back to keyword matching.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := currentUser()
			if err != nil {
				return err
			}

			merchants, err := readMerchantFile(args[0])
			if err != nil {
				return err
			}
			if len(merchants) == 0 {
				return fmt.Errorf("no merchant names found in %s", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			keywords, err := newKeywordMatcher()
			if err != nil {
				return err
			}
			classifier, err := newClassifier(store)
			if err != nil {
				return err
			}
			m := matcher.NewMerchantMatcher(
				classify.NewRetryingClient(classifier, retryOptions()),
				keywords,
				store,
			)

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(filepath.Clean(output)) // #nosec G304 -- user-supplied output path
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						slog.Warn("Failed to close output file", "error", err)
					}
				}()
				out = f
			}

			bar := newClassifyProgressBar(len(merchants))
			w := csv.NewWriter(out)
			if err := w.Write([]string{"merchant", "category", "category_name", "source", "confidence"}); err != nil {
				return fmt.Errorf("failed to write csv header: %w", err)
			}

			for _, name := range merchants {
				match := m.Match(ctx, user, name)
				record := []string{
					name,
					string(match.CategoryID),
					match.CategoryName,
					string(match.Source),
					strconv.FormatFloat(match.Confidence, 'f', 2, 64),
				}
				if err := w.Write(record); err != nil {
					return fmt.Errorf("failed to write csv record: %w", err)
				}
				_ = bar.Add(1)
			}

			w.Flush()
			if err := w.Error(); err != nil {
				return fmt.Errorf("failed to flush csv output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write csv to file instead of stdout")

	return cmd
}

// readMerchantFile reads one merchant name per line, skipping blanks and
// comment lines.
func readMerchantFile(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path)) // #nosec G304 -- user-supplied input path
	if err != nil {
		return nil, fmt.Errorf("failed to open merchant file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close merchant file", "error", err)
		}
	}()

	var merchants []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		merchants = append(merchants, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read merchant file: %w", err)
	}
	return merchants, nil
}

func newClassifyProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Classifying merchants...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(os.Stderr); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
