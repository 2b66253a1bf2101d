package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/openalpha/grantchain/x/registry/types"
)

// GetQueryCmd returns the cli query commands for the registry module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "registry",
		Short:                      "Querying commands for the registry module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryProfile(),
		CmdDeriveProfileID(),
	)

	return cmd
}

// CmdQueryProfile returns the command to query a profile
func CmdQueryProfile() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile [profile-id]",
		Short: "Query a profile by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Profile query for ID: %s requires running node connection\n", args[0])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdDeriveProfileID derives the profile ID for an (owner, nonce) pair
// without touching state. Useful to predict the ID before creating.
func CmdDeriveProfileID() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive-id [owner] [nonce]",
		Short: "Derive the profile ID for an owner and nonce",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var nonce uint64
			if _, err := fmt.Sscanf(args[1], "%d", &nonce); err != nil {
				return fmt.Errorf("invalid nonce: %v", err)
			}
			fmt.Println(types.ProfileID(args[0], nonce))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
