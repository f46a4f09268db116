// scrtkeys is a command-line tool for managing Secret Network wallet keys.
package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/scrtkit/walletcore/config"
	"github.com/scrtkit/walletcore/internal/keystore"
	"github.com/scrtkit/walletcore/internal/log"
	"github.com/scrtkit/walletcore/internal/security"
	"github.com/scrtkit/walletcore/internal/storage"
	"github.com/scrtkit/walletcore/internal/wallet"
	"github.com/scrtkit/walletcore/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	log.Init(cfg.LogLevel, cfg.LogJSON)

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "generate":
		cmdGenerate(args)
	case "validate":
		cmdValidate()
	case "derive":
		cmdDerive(args)
	case "create":
		cmdCreate(args, cfg)
	case "list":
		cmdList(cfg)
	case "show":
		cmdShow(args, cfg)
	case "delete":
		cmdDelete(args, cfg)
	case "sign":
		cmdSign(args, cfg)
	case "check":
		cmdCheck(args, cfg)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: scrtkeys <command> [flags]

Commands:
  generate [--words <n>]          Generate a new mnemonic (12, 15, 18, 21, or 24 words)
  validate                        Validate a mnemonic read from stdin
  derive [--account <a>] [--index <i>]
                                  Derive the address for a mnemonic read from stdin
  create --name <n> [--account <a>] [--index <i>]
                                  Create an encrypted wallet from a mnemonic
  list                            List stored wallets
  show --name <n>                 Show a stored wallet's metadata
  delete --name <n>               Delete a stored wallet
  sign --name <n> --message <m>   Sign a message with a stored wallet
  check --amount <a> [--to <addr>]
                                  Check an amount against the spending policy

Environment:
  SCRTWALLET_KEYSTORE_DIR, SCRTWALLET_SPENDING_LIMIT,
  SCRTWALLET_CONFIRMATION_THRESHOLD, SCRTWALLET_DENOM,
  SCRTWALLET_LOG_LEVEL, SCRTWALLET_LOG_JSON
`)
}

// ── generate ────────────────────────────────────────────────────────────

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	words := fs.Int("words", 24, "Word count (12, 15, 18, 21, or 24)")
	fs.Parse(args)

	mnemonic, err := wallet.GenerateMnemonic(*words)
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}
	fmt.Println(mnemonic)
	fmt.Fprintln(os.Stderr, "\nWrite this mnemonic down and store it securely. Anyone with these words controls the funds.")
}

// ── validate ────────────────────────────────────────────────────────────

func cmdValidate() {
	mnemonic := readMnemonic()
	if err := wallet.ValidateMnemonic(mnemonic); err != nil {
		fatal("invalid mnemonic: %v", err)
	}
	fmt.Println("Mnemonic is valid.")
}

// ── derive ──────────────────────────────────────────────────────────────

func cmdDerive(args []string) {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	account := fs.Uint("account", 0, "Account number")
	index := fs.Uint("index", 0, "Address index")
	fs.Parse(args)

	mnemonic := readMnemonic()
	addr, err := wallet.DeriveAddress(mnemonic, "", uint32(*account), uint32(*index))
	if err != nil {
		fatal("derive address: %v", err)
	}
	fmt.Printf("m/44'/529'/%d'/0/%d: %s\n", *account, *index, addr)
}

// ── create ──────────────────────────────────────────────────────────────

func cmdCreate(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	account := fs.Uint("account", 0, "Account number")
	index := fs.Uint("index", 0, "Address index")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: scrtkeys create --name <n> [--account <a>] [--index <i>]")
	}

	mnemonic := readMnemonic()
	if err := wallet.ValidateMnemonic(mnemonic); err != nil {
		fatal("invalid mnemonic: %v", err)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if !bytes.Equal(password, confirm) {
		fatal("passwords do not match")
	}

	w, err := wallet.New(mnemonic, string(password), uint32(*account), uint32(*index))
	if err != nil {
		fatal("create wallet: %v", err)
	}
	defer w.Destroy()

	ks, db := openKeystore(cfg)
	defer db.Close()

	entry := keystore.Entry{
		Name:        *name,
		Address:     w.Address().String(),
		Account:     uint32(*account),
		Index:       uint32(*index),
		Fingerprint: w.Fingerprint(),
		Blob:        w.EncryptedBlob(),
	}
	if err := ks.Create(entry); err != nil {
		fatal("store wallet: %v", err)
	}

	fmt.Printf("Created wallet %q\n", *name)
	fmt.Printf("  Address:     %s\n", entry.Address)
	fmt.Printf("  Path:        m/44'/529'/%d'/0/%d\n", *account, *index)
	fmt.Printf("  Fingerprint: %s\n", entry.Fingerprint)
}

// ── list ────────────────────────────────────────────────────────────────

func cmdList(cfg *config.Config) {
	ks, db := openKeystore(cfg)
	defer db.Close()

	entries, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No wallets.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%-20s %s\n", e.Name, e.Address)
	}
}

// ── show ────────────────────────────────────────────────────────────────

func cmdShow(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: scrtkeys show --name <n>")
	}

	ks, db := openKeystore(cfg)
	defer db.Close()

	entry, err := ks.Get(*name)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Name:        %s\n", entry.Name)
	fmt.Printf("Address:     %s\n", entry.Address)
	fmt.Printf("Path:        m/44'/529'/%d'/0/%d\n", entry.Account, entry.Index)
	fmt.Printf("Fingerprint: %s\n", entry.Fingerprint)
	fmt.Printf("Created:     %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05 MST"))
}

// ── delete ──────────────────────────────────────────────────────────────

func cmdDelete(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	yes := fs.Bool("yes", false, "Skip confirmation")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: scrtkeys delete --name <n> [--yes]")
	}

	if !*yes {
		fmt.Fprintf(os.Stderr, "Delete wallet %q? This cannot be undone unless you still have the mnemonic. [y/N] ", *name)
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	ks, db := openKeystore(cfg)
	defer db.Close()

	if err := ks.Delete(*name); err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Deleted wallet %q\n", *name)
}

// ── sign ────────────────────────────────────────────────────────────────

func cmdSign(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	message := fs.String("message", "", "Message to sign")
	file := fs.String("file", "", "File whose contents to sign")
	fs.Parse(args)

	if *name == "" || (*message == "" && *file == "") {
		fatal("Usage: scrtkeys sign --name <n> --message <m> | --file <f>")
	}

	payload := []byte(*message)
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			fatal("read file: %v", err)
		}
		payload = data
	}

	ks, db := openKeystore(cfg)
	defer db.Close()

	entry, err := ks.Get(*name)
	if err != nil {
		fatal("%v", err)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	w, err := wallet.Open(entry.Blob, entry.Fingerprint, string(password), entry.Account, entry.Index)
	if err != nil {
		fatal("unlock wallet: %v", err)
	}
	defer w.Destroy()

	sig, err := w.Sign(payload)
	if err != nil {
		fatal("sign: %v", err)
	}
	fmt.Printf("Address:   %s\n", w.Address())
	fmt.Printf("Signature: %s\n", hex.EncodeToString(sig))
}

// ── check ───────────────────────────────────────────────────────────────

func cmdCheck(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	amount := fs.Int64("amount", 0, "Amount in the smallest unit")
	to := fs.String("to", "", "Recipient address")
	fs.Parse(args)

	if *to != "" {
		if _, err := types.ParseAddress(*to); err != nil {
			fatal("invalid recipient address: %v", err)
		}
	}

	mgr, err := security.NewManager(cfg.SpendingLimit, cfg.ConfirmationThreshold, cfg.Denom)
	if err != nil {
		fatal("policy: %v", err)
	}

	decision, err := mgr.ValidateTransaction(*amount, *to)
	if err != nil {
		fatal("rejected: %v", err)
	}
	if decision.ConfirmationRequired {
		fmt.Println(decision.Message)
		return
	}
	fmt.Println("Allowed without confirmation.")
}

// ── helpers ─────────────────────────────────────────────────────────────

func openKeystore(cfg *config.Config) (*keystore.Keystore, storage.DB) {
	db, err := storage.NewBadger(cfg.KeystoreDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	return keystore.New(db), db
}

// readMnemonic reads a mnemonic from stdin without echoing when stdin is
// a terminal, so the phrase does not land in shell history or scrollback.
func readMnemonic() string {
	if term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, "Enter mnemonic: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fatal("read mnemonic: %v", err)
		}
		return wallet.NormalizeMnemonic(string(raw))
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		fatal("read mnemonic: %v", err)
	}
	return wallet.NormalizeMnemonic(line)
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return password, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
