package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/blackwell-systems/docqa/internal/document"
	"github.com/blackwell-systems/docqa/internal/logging"
	"github.com/blackwell-systems/docqa/internal/tui"
	"github.com/blackwell-systems/docqa/internal/workflow"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a PDF for question answering",
		Long: `Upload a PDF to the backend, which splits it into chunks and indexes it.
The command waits until processing finishes.

Examples:
  docqa upload notes.pdf
  docqa upload ~/Books/physics.pdf --no-interactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cand, err := document.Inspect(args[0])
			if err != nil {
				return err
			}

			sess := newSession(logging.New("upload"))
			if !sess.Upload.SelectFile(cand) {
				out, _ := sess.Upload.Outcome()
				return fmt.Errorf("%s: %s is %s", out.Message, cand.Name, cand.MediaType)
			}

			describeCandidate(cand)

			showBar := tui.ShouldUseTUI(cmd) && cand.Size > 0
			progressCh := make(chan int64, 8)
			if showBar {
				sess.Upload.SetReaderWrapper(func(r io.Reader, size int64) io.Reader {
					return tui.NewProgressReader(r, size, progressCh)
				})
			}

			task := sess.Upload.Submit()
			if task == nil {
				return errors.New("upload did not start")
			}

			finished := make(chan struct{})
			results := make(chan workflow.UploadDone, 1)
			go func() {
				results <- task().(workflow.UploadDone)
				close(finished)
			}()

			if showBar {
				if _, err := tui.ShowProgress("Uploading "+cand.Name, cand.Size, progressCh, finished); err != nil {
					warn("Progress display failed: %v", err)
				}
			}
			fmt.Fprintln(os.Stderr, color.HiBlackString("Processing..."))

			done := <-results
			if refresh := sess.Upload.Complete(done); refresh != nil {
				sess.Status.Apply(refresh().(workflow.StatusFetched))
			}

			out, _ := sess.Upload.Outcome()
			if !out.OK() {
				return errors.New(out.Message)
			}
			ok("%s processed successfully! %d pages, %d chunks created.", out.Filename, out.Pages, out.Chunks)
			if st, have := sess.Status.Snapshot(); have {
				fmt.Printf("  %d chunks now available\n", st.TotalChunks)
			}
			fmt.Printf("\nNext: %s\n", color.CyanString(`docqa ask "your question"`))
			return nil
		},
	}
}

func describeCandidate(c document.Candidate) {
	line := fmt.Sprintf("%s (%s", c.Name, humanize.Bytes(uint64(c.Size)))
	if c.Pages > 0 {
		line += fmt.Sprintf(", %d pages", c.Pages)
	}
	line += ")"
	header("%s", line)
	if c.Title != "" {
		fmt.Printf("  %s\n", c.Title)
	}
}
