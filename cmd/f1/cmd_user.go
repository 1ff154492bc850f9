package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage guesser accounts",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a guesser account",
		RunE:  runUserAdd,
	}
	addCmd.Flags().String("username", "", "Display name, unique case-insensitively (required)")
	addCmd.MarkFlagRequired("username")
	addCmd.Flags().String("google-id", "", "External identity subject (required)")
	addCmd.MarkFlagRequired("google-id")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all guesser accounts",
		RunE:  runUserList,
	}

	userCmd.AddCommand(addCmd, listCmd)
	return userCmd
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	username, _ := cmd.Flags().GetString("username")
	googleID, _ := cmd.Flags().GetString("google-id")

	id, err := b.repos.Users.AddUser(ctx, username, googleID)
	if err != nil {
		return err
	}
	log.Info().Str("id", id.String()).Str("username", username).Msg("user created")
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	users, err := b.repos.Users.Users(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		cmd.Printf("%s\t%s\n", u.ID, u.Username)
	}
	return nil
}
