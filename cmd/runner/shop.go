package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rule-runner/internal/shop"
	"github.com/vovakirdan/rule-runner/internal/storage"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "List the upgrades and your balance",
	Long: `Spend coins earned in runs on permanent upgrades.

Examples:
  runner shop
  runner shop buy coin_boost
  runner shop grant 500      # debug: add coins
  runner shop unlock-all     # debug: own everything`,
	Args: cobra.NoArgs,
	Run:  runShopList,
}

var shopBuyCmd = &cobra.Command{
	Use:   "buy <item>",
	Short: "Buy an upgrade",
	Args:  cobra.ExactArgs(1),
	Run:   runShopBuy,
}

var shopGrantCmd = &cobra.Command{
	Use:   "grant <coins>",
	Short: "Add coins to the balance (debug)",
	Args:  cobra.ExactArgs(1),
	Run:   runShopGrant,
}

var shopUnlockCmd = &cobra.Command{
	Use:   "unlock-all",
	Short: "Own every upgrade without paying (debug)",
	Args:  cobra.NoArgs,
	Run:   runShopUnlockAll,
}

func init() {
	shopCmd.AddCommand(shopBuyCmd, shopGrantCmd, shopUnlockCmd)
}

func openShop() (*shop.Shop, *storage.Store) {
	store := openStore()
	return shop.New(shop.DefaultCatalog(), store), store
}

func runShopList(_ *cobra.Command, _ []string) {
	s, store := openShop()
	defer store.Close()

	entries, balance, err := s.Listing()
	if err != nil {
		exitf("reading shop: %v", err)
	}

	fmt.Printf("Balance: %d coins\n", balance)
	fmt.Println()
	fmt.Printf("  %-13s  %-5s  %-6s  %s\n", "ID", "Price", "Status", "Description")
	fmt.Printf("  %-13s  %-5s  %-6s  %s\n", "--", "-----", "------", "-----------")
	for _, e := range entries {
		status := ""
		switch {
		case e.Owned:
			status = "owned"
		case e.Affordable:
			status = "buy"
		}
		fmt.Printf("  %-13s  %-5d  %-6s  %s\n", e.ID, e.Price, status, e.Description)
	}
	fmt.Println()
	fmt.Println("Run 'runner shop buy <id>' to buy an upgrade.")
}

func runShopBuy(_ *cobra.Command, args []string) {
	s, store := openShop()
	defer store.Close()

	item, err := s.Buy(args[0])
	switch {
	case errors.Is(err, shop.ErrUnknownItem):
		exitf("unknown item %q (see 'runner shop')", args[0])
	case errors.Is(err, storage.ErrAlreadyOwned):
		exitf("you already own %s", args[0])
	case errors.Is(err, storage.ErrInsufficientCoins):
		it, _ := s.Catalog().Item(args[0])
		balance, _ := store.Balance()
		exitf("%s costs %d coins, you have %d", it.Name, it.Price, balance)
	case err != nil:
		exitf("%v", err)
	}

	balance, _ := store.Balance()
	fmt.Printf("Bought %s for %d coins. Balance: %d\n", item.Name, item.Price, balance)
}

func runShopGrant(_ *cobra.Command, args []string) {
	coins, err := strconv.Atoi(args[0])
	if err != nil {
		exitf("invalid coin amount %q", args[0])
	}

	s, store := openShop()
	defer store.Close()

	if err := s.Grant(coins); err != nil {
		exitf("%v", err)
	}
	balance, _ := store.Balance()
	fmt.Printf("Granted %d coins. Balance: %d\n", coins, balance)
}

func runShopUnlockAll(_ *cobra.Command, _ []string) {
	s, store := openShop()
	defer store.Close()

	if err := s.UnlockAll(); err != nil {
		exitf("%v", err)
	}
	fmt.Println("Unlocked every upgrade.")
}
