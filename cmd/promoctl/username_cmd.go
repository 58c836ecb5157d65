package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(usernameCmd)
}

var usernameCmd = &cobra.Command{
	Use:   "username [value]",
	Short: "Show or set the operator's account username",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		if len(args) == 1 {
			username := strings.TrimPrefix(strings.TrimSpace(args[0]), "@")
			if username == "" {
				return out.Error(fmt.Errorf("username cannot be empty"))
			}
			resp, err := a.Client.SetUsername(ctx, username)
			if err != nil {
				return out.Error(err)
			}
			if !resp.Success {
				return out.Error(fmt.Errorf("set username: %s", resp.ErrorMessage()))
			}
			if out.IsJSON() {
				return out.Success(map[string]string{"username": username})
			}
			out.Printf("✓ Username set to %s\n", username)
			return nil
		}

		resp, err := a.Client.Username(ctx)
		if err != nil {
			return out.Error(err)
		}
		if !resp.Success {
			return out.Error(fmt.Errorf("get username: %s", resp.ErrorMessage()))
		}
		if out.IsJSON() {
			return out.Success(map[string]string{"username": resp.Username})
		}
		if resp.Username == "" {
			out.Println("No username stored.")
			return nil
		}
		out.Println(resp.Username)
		return nil
	},
}
