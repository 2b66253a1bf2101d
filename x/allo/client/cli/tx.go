package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/grantchain/x/allo/types"
)

// GetTxCmd returns the transaction commands for the allo module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "allo",
		Short:                      "Allo module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreatePool(),
		CmdFundPool(),
		CmdRegisterRecipient(),
		CmdReviewRecipients(),
		CmdSubmitMilestones(),
		CmdReviewMilestone(),
		CmdDistribute(),
		CmdCancelRecipients(),
	)

	return cmd
}

// CmdCreatePool returns the command to create a pool
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [profile-id] [strategy] [token] [amount] [init-data]",
		Short: "Create a funding pool bound to a strategy",
		Long: `Create a funding pool scoped to a profile and bound to an approved strategy.
The init data is a strategy-specific JSON document.

Examples:
  grantchaind tx allo create-pool 4f2a... direct-grants stake 1000stake '{"registry_gating":true}' --from alice`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgCreatePool{
				Creator:   clientCtx.GetFromAddress().String(),
				ProfileID: args[0],
				Strategy:  args[1],
				Token:     args[2],
				Amount:    args[3],
				Value:     args[3] + args[2],
				InitData:  []byte(args[4]),
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdFundPool returns the command to fund a pool
func CmdFundPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund-pool [pool-id] [amount] [token]",
		Short: "Add funds to an existing pool",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}

			msg := &types.MsgFundPool{
				Funder: clientCtx.GetFromAddress().String(),
				PoolID: poolID,
				Amount: args[1],
				Value:  args[1] + args[2],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRegisterRecipient returns the command to register as a grant recipient
func CmdRegisterRecipient() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register-recipient [pool-id] [data]",
		Short: "Register as a grant recipient in a pool",
		Long: `Register as a grant recipient. The data is a strategy-specific JSON document.

Examples:
  grantchaind tx allo register-recipient 1 '{"recipient_address":"cosmos1...","grant_amount":"500"}' --from bob`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}

			msg := &types.MsgRegisterRecipient{
				Caller: clientCtx.GetFromAddress().String(),
				PoolID: poolID,
				Data:   []byte(args[1]),
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdReviewRecipients returns the command to review pending recipients
func CmdReviewRecipients() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review-recipients [pool-id] [recipient-id:status]...",
		Short: "Apply a batch of recipient status verdicts",
		Long: `Apply recipient status verdicts as the pool manager. Each entry pairs a
recipient ID with the new status. The batch applies atomically.

Examples:
  grantchaind tx allo review-recipients 1 cosmos1abc...:accepted cosmos1def...:rejected --from manager`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}

			updates := make([]types.StatusUpdate, 0, len(args)-1)
			for _, arg := range args[1:] {
				recipientID, status, found := strings.Cut(arg, ":")
				if !found {
					return fmt.Errorf("invalid update %q, expected recipient-id:status", arg)
				}
				updates = append(updates, types.StatusUpdate{
					RecipientID: recipientID,
					NewStatus:   status,
				})
			}

			msg := &types.MsgReviewRecipients{
				Caller:  clientCtx.GetFromAddress().String(),
				PoolID:  poolID,
				Updates: updates,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSubmitMilestones returns the command to submit a milestone plan
func CmdSubmitMilestones() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-milestones [pool-id] [recipient-id] [amount]...",
		Short: "Submit a milestone plan for an accepted recipient",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}

			milestones := make([]types.MilestoneInput, 0, len(args)-2)
			for _, amount := range args[2:] {
				milestones = append(milestones, types.MilestoneInput{Amount: amount})
			}

			msg := &types.MsgSubmitMilestones{
				Caller:      clientCtx.GetFromAddress().String(),
				PoolID:      poolID,
				RecipientID: args[1],
				Milestones:  milestones,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdReviewMilestone returns the command to review a submitted milestone
func CmdReviewMilestone() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review-milestone [pool-id] [recipient-id] [milestone-index] [status]",
		Short: "Accept or reject one submitted milestone",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}

			index, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return err
			}

			msg := &types.MsgReviewMilestone{
				Caller:         clientCtx.GetFromAddress().String(),
				PoolID:         poolID,
				RecipientID:    args[1],
				MilestoneIndex: index,
				Status:         args[3],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDistribute returns the command to distribute funds to recipients
func CmdDistribute() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distribute [pool-id] [recipient-id]...",
		Short: "Distribute pool funds to accepted recipients",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}

			msg := &types.MsgDistribute{
				Caller:       clientCtx.GetFromAddress().String(),
				PoolID:       poolID,
				RecipientIDs: args[1:],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCancelRecipients returns the command to cancel non-terminal recipients
func CmdCancelRecipients() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel-recipients [pool-id] [recipient-id]...",
		Short: "Cancel non-terminal recipients in a pool",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}

			msg := &types.MsgCancelRecipients{
				Caller:       clientCtx.GetFromAddress().String(),
				PoolID:       poolID,
				RecipientIDs: args[1:],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
