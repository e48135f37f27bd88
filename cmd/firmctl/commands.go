package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/firmtemplate/firm-api/internal/contact"
	"github.com/firmtemplate/firm-api/internal/scheduling"
	"github.com/firmtemplate/firm-api/internal/video"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSchedulingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduling",
		Short: "Print the scheduling configuration resolved from the environment",
		Long: `Reads SCHEDULING_PROVIDER, CALENDLY_URL and CALCOM_USERNAME and prints the
resolved configuration. Exits 1 when the provider is misconfigured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			v.AutomaticEnv()

			cfg := scheduling.Resolve(scheduling.Input{
				Provider:       v.GetString("SCHEDULING_PROVIDER"),
				CalendlyURL:    v.GetString("CALENDLY_URL"),
				CalcomUsername: v.GetString("CALCOM_USERNAME"),
			})
			if err := printJSON(cmd.OutOrStdout(), cfg); err != nil {
				return err
			}
			if cfg.Status == scheduling.StatusError {
				return errCheckFailed
			}
			return nil
		},
	}
}

func newVideoCmd() *cobra.Command {
	var in video.Input

	cmd := &cobra.Command{
		Use:   "video",
		Short: "Resolve a video embed URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source := video.Resolve(in)
			if err := printJSON(cmd.OutOrStdout(), source); err != nil {
				return err
			}
			if source.Status == video.StatusError {
				return errCheckFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Provider, "provider", "", "video provider: youtube, vimeo or file")
	cmd.Flags().StringVar(&in.VideoID, "id", "", "provider video id")
	cmd.Flags().StringVar(&in.Src, "src", "", "file source URL")
	_ = cmd.MarkFlagRequired("provider") //nolint:errcheck // flag is defined above

	return cmd
}

func newContactCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Validate a contact submission stored as JSON",
		Long:  `Validates a contact form submission file ("-" reads stdin) and prints every field error.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open submission: %w", err)
				}
				defer f.Close()
				r = f
			}

			var data contact.FormData
			if err := json.NewDecoder(r).Decode(&data); err != nil {
				return fmt.Errorf("decode submission: %w", err)
			}

			result := contact.Validate(data)
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Success {
				return errCheckFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "submission JSON file")
	return cmd
}
