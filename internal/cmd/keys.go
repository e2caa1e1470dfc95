package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/go-bip39"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"terra-exec/internal/models"
	"terra-exec/internal/wallet"
)

func (a *App) keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the keys of a wallet",
	}

	cmd.AddCommand(a.keysAddCmd(), a.keysShowCmd(), a.keysListCmd())
	return cmd
}

func (a *App) keysAddCmd() *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Store a mnemonic under label",
		Long: `Add reads a BIP-39 mnemonic from standard input and stores it in the
wallet under label. With --generate a new 24 word mnemonic is created instead
and printed once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := args[0]

			w, err := a.openWallet()
			if err != nil {
				return err
			}

			var mnemonic string
			if generate {
				mnemonic, err = newMnemonic()
			} else {
				mnemonic, err = readMnemonic(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			if err := w.AddKey(label, mnemonic); err != nil {
				return fmt.Errorf("failed to store key %s: %w", label, err)
			}

			address, err := a.address(w, label)
			if err != nil {
				return err
			}

			a.Logger().Info("Key stored",
				zap.String("wallet", w.Name()),
				zap.String("label", label),
				zap.String("address", address))

			if generate {
				fmt.Fprintf(a.stdout, "%s\n\n", mnemonic)
				color.New(color.FgYellow).Fprintln(a.stdout, "Write this mnemonic down, it will not be shown again.")
			}
			fmt.Fprintln(a.stdout, address)
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "generate a new mnemonic instead of reading one")
	return cmd
}

func (a *App) keysShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <label>",
		Short: "Print the account address of label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWallet()
			if err != nil {
				return err
			}

			address, err := a.address(w, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, address)
			return nil
		},
	}
}

func (a *App) keysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the key labels of the wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWallet()
			if err != nil {
				return err
			}

			labels, err := w.Labels()
			if err != nil {
				return fmt.Errorf("failed to list keys of wallet %s: %w", w.Name(), err)
			}
			sort.Strings(labels)

			for _, label := range labels {
				fmt.Fprintln(a.stdout, label)
			}
			return nil
		},
	}
}

func (a *App) openWallet() (*wallet.Wallet, error) {
	w, err := a.walletManager().Wallet(a.cfg.Wallet.Name)
	if err != nil {
		return nil, models.Tag(models.ErrKeyDerivation, err)
	}
	return w, nil
}

// address derives the account address of label with the configured seed
func (a *App) address(w *wallet.Wallet, label string) (string, error) {
	var seed *string
	if a.cfg.Wallet.Seed != "" {
		seed = &a.cfg.Wallet.Seed
	}

	privKey, err := w.PrivateKey(label, seed)
	if err != nil {
		return "", err
	}

	address, err := a.codec().AccountAddress(privKey.PubKey())
	if err != nil {
		return "", models.Wrapf(models.ErrKeyDerivation, err, "deriving account address")
	}
	return address, nil
}

func readMnemonic(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read mnemonic: %w", err)
	}

	mnemonic := strings.Join(strings.Fields(string(data)), " ")
	if mnemonic == "" {
		return "", errorsmod.Wrap(models.ErrKeyDerivation, "no mnemonic on standard input")
	}
	return mnemonic, nil
}

func newMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return mnemonic, nil
}
