package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"dmchat/backend/internal/config"
	"dmchat/backend/internal/models"
	"dmchat/backend/internal/storage"

	"github.com/golang/glog"
	"github.com/olekukonko/tablewriter"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func main() {
	defer glog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStorage connects to Postgres, and to Redis only when withRedis is set.
func openStorage(withRedis bool) (*storage.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := storage.OpenPostgres(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	var rdb *redis.Client
	if withRedis {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	}
	return storage.NewStorageService(db, rdb), nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Operator tools for the dmchat backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(usersCmd(), historyCmd(), deleteConversationCmd(), onlineCmd())
	return root
}

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStorage(false)
			if err != nil {
				return err
			}
			users, err := s.ListOtherUsers(cmd.Context(), 0)
			if err != nil {
				return err
			}
			renderUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <user_a> <user_b>",
		Short: "Print the conversation between two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b, err := parsePair(args)
			if err != nil {
				return err
			}
			s, err := openStorage(false)
			if err != nil {
				return err
			}
			messages, err := s.History(cmd.Context(), a, b, limit)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), messages)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", config.DefaultHistoryLimit, "maximum number of messages")
	return cmd
}

func deleteConversationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-conversation <user_a> <user_b>",
		Short: "Delete every message between two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b, err := parsePair(args)
			if err != nil {
				return err
			}
			s, err := openStorage(false)
			if err != nil {
				return err
			}
			n, err := s.DeleteConversation(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d messages between %d and %d.\n", n, a, b)
			return nil
		},
	}
}

func onlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "online",
		Short: "List users with a live connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStorage(true)
			if err != nil {
				return err
			}
			ids, err := s.OnlineUserIDs(cmd.Context())
			if err != nil {
				return err
			}
			renderOnline(cmd.OutOrStdout(), ids)
			return nil
		},
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func renderUsers(w io.Writer, users []models.User) {
	table := newTable(w, "ID", "Username", "Created")
	for _, u := range users {
		table.Append([]string{
			strconv.FormatUint(uint64(u.ID), 10),
			u.Username,
			u.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
}

func renderHistory(w io.Writer, messages []models.Message) {
	table := newTable(w, "ID", "Time", "From", "To", "Text")
	for _, m := range messages {
		table.Append([]string{
			strconv.FormatUint(uint64(m.ID), 10),
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			strconv.FormatUint(uint64(m.SenderID), 10),
			strconv.FormatUint(uint64(m.ReceiverID), 10),
			m.Text,
		})
	}
	table.Render()
}

func renderOnline(w io.Writer, ids []uint) {
	table := newTable(w, "User ID")
	for _, id := range ids {
		table.Append([]string{strconv.FormatUint(uint64(id), 10)})
	}
	table.Render()
	fmt.Fprintf(w, "%d online\n", len(ids))
}

func parsePair(args []string) (uint, uint, error) {
	ids := make([]uint, 0, 2)
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, strconv.IntSize)
		if err != nil || id == 0 {
			return 0, 0, fmt.Errorf("invalid user id %q", arg)
		}
		ids = append(ids, uint(id))
	}
	return ids[0], ids[1], nil
}
