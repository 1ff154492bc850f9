package main

import (
	"github.com/spf13/cobra"
)

func newCodeCmd() *cobra.Command {
	codeCmd := &cobra.Command{
		Use:   "code",
		Short: "Issue and check verification and referral codes",
	}

	issueVerificationCmd := &cobra.Command{
		Use:   "issue-verification",
		Short: "Issue a verification code for a user's email",
		RunE:  runCodeIssueVerification,
	}
	issueVerificationCmd.Flags().String("guesser", "", "Guesser id (required)")
	issueVerificationCmd.MarkFlagRequired("guesser")
	issueVerificationCmd.Flags().String("email", "", "Email to verify (required)")
	issueVerificationCmd.MarkFlagRequired("email")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check and consume a verification code",
		RunE:  runCodeVerify,
	}
	verifyCmd.Flags().String("guesser", "", "Guesser id (required)")
	verifyCmd.MarkFlagRequired("guesser")
	verifyCmd.Flags().Int("code", 0, "Verification code (required)")
	verifyCmd.MarkFlagRequired("code")

	issueReferralCmd := &cobra.Command{
		Use:   "issue-referral",
		Short: "Issue a referral code",
		RunE:  runCodeIssueReferral,
	}
	issueReferralCmd.Flags().String("guesser", "", "Guesser id (required)")
	issueReferralCmd.MarkFlagRequired("guesser")

	checkReferralCmd := &cobra.Command{
		Use:   "check-referral",
		Short: "Check whether a referral code is valid",
		RunE:  runCodeCheckReferral,
	}
	checkReferralCmd.Flags().Int64("code", 0, "Referral code (required)")
	checkReferralCmd.MarkFlagRequired("code")

	codeCmd.AddCommand(issueVerificationCmd, verifyCmd, issueReferralCmd, checkReferralCmd)
	return codeCmd
}

func runCodeIssueVerification(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	guesser, err := guesserFlag(cmd)
	if err != nil {
		return err
	}
	email, _ := cmd.Flags().GetString("email")

	code, err := b.codes.IssueVerificationCode(ctx, guesser, email)
	if err != nil {
		return err
	}
	cmd.Printf("%d\n", code)
	return nil
}

func runCodeVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	guesser, err := guesserFlag(cmd)
	if err != nil {
		return err
	}
	code, _ := cmd.Flags().GetInt("code")

	email, ok, err := b.codes.VerifyCode(ctx, guesser, code)
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println("invalid")
		return nil
	}
	cmd.Printf("verified %s\n", email)
	return nil
}

func runCodeIssueReferral(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	guesser, err := guesserFlag(cmd)
	if err != nil {
		return err
	}
	code, err := b.codes.IssueReferralCode(ctx, guesser)
	if err != nil {
		return err
	}
	cmd.Printf("%d\n", code)
	return nil
}

func runCodeCheckReferral(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	code, _ := cmd.Flags().GetInt64("code")
	ok, err := b.codes.IsValidReferralCode(ctx, code)
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println("invalid")
		return nil
	}
	cmd.Println("valid")
	return nil
}
