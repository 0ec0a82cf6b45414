package cli

import (
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "High score commands",
	}

	cmd.AddCommand(newScoresSubmitCmd())
	cmd.AddCommand(newScoresListCmd())

	return cmd
}

func newScoresSubmitCmd() *cobra.Command {
	var level, user, score, timestamp string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Post a high score (requires login)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if timestamp == "" {
				timestamp = time.Now().UTC().Format(time.RFC3339)
			}

			req := ScoreRecord{
				Level:      level,
				UserHandle: user,
				Score:      score,
				Timestamp:  timestamp,
			}
			var result MessageResult

			if err := client.Post(cmd.Context(), "/high-scores", req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Game level (required)")
	cmd.Flags().StringVar(&user, "user", "", "User handle the score belongs to (required)")
	cmd.Flags().StringVar(&score, "score", "", "Score (required)")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "Time the score was achieved (default: now, RFC 3339)")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func newScoresListCmd() *cobra.Command {
	var level string
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a level's high scores, best first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("level", level)
			q.Set("page", strconv.Itoa(page))

			var records []ScoreRecord
			if err := client.Get(cmd.Context(), "/high-scores?"+q.Encode(), &records); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(Leaderboard{Page: page, Records: records})
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Game level (required)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number, 20 scores per page")
	_ = cmd.MarkFlagRequired("level")

	return cmd
}
