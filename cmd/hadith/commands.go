package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
)

type openFunc func(ctx context.Context) (ports.QuestionAnswerer, func(), error)

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "hadith",
		Short:         "Ask questions against the hadith collection",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newAskCmd(open), newSearchCmd(open))
	return root
}

func newAskCmd(open openFunc) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question with cited sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answerer, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			answer, err := answerer.Answer(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), answer)
			}
			return writeAnswer(cmd.OutOrStdout(), answer)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the answer as JSON")
	return cmd
}

func newSearchCmd(open openFunc) *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "List the ranked hadith candidates for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answerer, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			candidates, err := answerer.Search(cmd.Context(), strings.Join(args, " "), topK)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				_, err := fmt.Fprintln(out, "sonuç yok")
				return err
			}
			for i, c := range candidates {
				if _, err := fmt.Fprintf(out, "%d. [%s %.3f] %s\n   %s\n", i+1, c.Tier, c.Score, c.Record.FullReference(), c.Record.PrimaryText); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of results (0 uses RAG_TOP_K)")
	return cmd
}

func writeAnswer(w io.Writer, answer *domain.Answer) error {
	if _, err := fmt.Fprintln(w, strings.TrimSpace(answer.Text)); err != nil {
		return err
	}
	if len(answer.Sources) > 0 {
		if _, err := fmt.Fprintln(w, "\nKaynaklar:"); err != nil {
			return err
		}
		for _, src := range answer.Sources {
			if _, err := fmt.Fprintf(w, "- %s (%s)\n", src.Label, src.Kind); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\n[%s]\n", answer.Provenance)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
