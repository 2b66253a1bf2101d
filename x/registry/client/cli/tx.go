package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/grantchain/x/registry/types"
)

// GetTxCmd returns the transaction commands for the registry module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "registry",
		Short:                      "Registry module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreateProfile(),
		CmdAddMembers(),
		CmdTransferOwnership(),
	)

	return cmd
}

// CmdCreateProfile returns the command to create a profile
func CmdCreateProfile() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-profile [nonce] [name] [metadata-protocol] [metadata-pointer]",
		Short: "Create a new profile",
		Long: `Create a new profile. The profile ID is derived from your address and the nonce.

Examples:
  grantchaind tx registry create-profile 1 "Alpha Collective" 1 QmProfileDoc --from alice`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			nonce, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			protocol, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return err
			}

			msg := &types.MsgCreateProfile{
				Creator: clientCtx.GetFromAddress().String(),
				Nonce:   nonce,
				Name:    args[1],
				Metadata: types.Metadata{
					Protocol: protocol,
					Pointer:  args[3],
				},
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdAddMembers returns the command to add profile members
func CmdAddMembers() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-members [profile-id] [member]...",
		Short: "Add members to a profile",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgAddMembers{
				Caller:    clientCtx.GetFromAddress().String(),
				ProfileID: args[0],
				Members:   args[1:],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdTransferOwnership returns the command to transfer profile ownership
func CmdTransferOwnership() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer-ownership [profile-id] [new-owner]",
		Short: "Transfer profile ownership",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgTransferOwnership{
				Caller:    clientCtx.GetFromAddress().String(),
				ProfileID: args[0],
				NewOwner:  args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
