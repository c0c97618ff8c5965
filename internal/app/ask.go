package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/docqa/internal/logging"
	"github.com/blackwell-systems/docqa/internal/util"
	"github.com/blackwell-systems/docqa/internal/workflow"
	"github.com/fatih/color"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

const answerWidth = 80

type sourceJSON struct {
	Page    int    `json:"page"`
	ChunkID int    `json:"chunk_id"`
	Text    string `json:"text"`
}

type answerJSON struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Sources  []sourceJSON `json:"sources"`
}

func newAskCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask a question about the uploaded documents",
		Long: `Ask a natural-language question. The answer is printed with the document
excerpts it was based on. Pages are numbered from 1.

Examples:
  docqa ask what is angular momentum
  docqa ask "Explain Newton's third law" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := newSession(logging.New("ask"))

			task := sess.Ask.Submit(strings.Join(args, " "))
			if task == nil {
				return errors.New("question is empty")
			}
			if util.IsTTY() && !jsonOut {
				fmt.Fprintln(os.Stderr, color.HiBlackString("Thinking..."))
			}

			done := task().(workflow.AnswerDone)
			sess.Ask.Complete(done)
			res, _ := sess.Ask.Result()

			if done.Err != nil {
				return errors.New(res.Answer)
			}
			if jsonOut {
				return printAnswerJSON(cmd.OutOrStdout(), res)
			}
			printAnswerText(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func printAnswerText(w io.Writer, res workflow.AnswerResult) {
	fmt.Fprintln(w, color.CyanString("Answer"))
	fmt.Fprintln(w, wordwrap.String(res.Answer, answerWidth))

	if len(res.Sources) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.CyanString("Sources from Document"))
	for _, src := range res.Sources {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.MagentaString("Page %d • Chunk #%d", src.DisplayPage(), src.ChunkID))
		fmt.Fprintln(w, indent(wordwrap.String(src.Text, answerWidth-2), "  "))
	}
}

// printAnswerJSON keeps the backend's zero-based page numbers.
func printAnswerJSON(w io.Writer, res workflow.AnswerResult) error {
	out := answerJSON{Question: res.Question, Answer: res.Answer, Sources: []sourceJSON{}}
	for _, src := range res.Sources {
		out.Sources = append(out.Sources, sourceJSON{Page: src.Page, ChunkID: src.ChunkID, Text: src.Text})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
