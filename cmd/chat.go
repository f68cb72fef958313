package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"nebify-credit/service"
)

var chatSessionID string

// plainText turns reply HTML into terminal text, keeping link targets.
func plainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	href, inLink := "", false

	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" {
				continue
			}
			href, inLink = "", true
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "href" {
					href = string(val)
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "a" && inLink {
				if href != "" {
					fmt.Fprintf(&b, " (%s)", href)
				}
				inLink = false
			}
		}
	}
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the credit assistant from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		svc := buildServices(ctx, cfg, logger)
		defer svc.close()

		session := svc.chat.StartSession(ctx, chatSessionID)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "session %s (empty line or \"quit\" to exit)\n", session.ID)

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.EqualFold(line, "quit") {
				break
			}

			reply, err := svc.chat.Reply(ctx, session.ID, line)
			if errors.Is(err, service.ErrEmptyMessage) {
				continue
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, plainText(reply.HTML))
			if len(reply.Suggestions) > 0 {
				fmt.Fprintf(out, "  [%s]\n", strings.Join(reply.Suggestions, "] ["))
			}
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "resume a session id")
	rootCmd.AddCommand(chatCmd)
}
