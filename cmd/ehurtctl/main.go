// ehurtctl is a CLI tool for exercising a running storefront server.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	ehurtctl catalog -server URL [-name TEXT] [-category NAME]
//	ehurtctl cart -server URL
//	ehurtctl toggle -server URL -item ID
//	ehurtctl qty -server URL -item ID -n N
//	ehurtctl submit -server URL
//	ehurtctl status -server URL [-ack]
//	ehurtctl orders -server URL
//	ehurtctl clone -server URL -order ID
//	ehurtctl payments -server URL
//
// Examples:
//
//	ehurtctl catalog -server http://localhost:8080 -name flour
//	ehurtctl toggle -server http://localhost:8080 -item 1042
//	ehurtctl qty -server http://localhost:8080 -item 1042 -n 5
//	ehurtctl submit -server http://localhost:8080
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var client = &http.Client{Timeout: 30 * time.Second}

// Global flags (apply to all commands)
var (
	serverURL string
	quiet     bool
	noColor   bool
	verbose   bool
	account   string // Ehurt-Account header value, e.g. id="u-1022";role=owner
	token     string // bearer token for the Authorization header
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen = "", "", ""
	colorYellow, colorCyan, colorGray, colorBold = "", "", "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "catalog":
		runCatalog(args)
	case "cart":
		runCart(args)
	case "toggle":
		runToggle(args)
	case "qty":
		runQty(args)
	case "submit":
		runSubmit(args)
	case "status":
		runStatus(args)
	case "orders":
		runOrders(args)
	case "clone":
		runClone(args)
	case "payments":
		runPayments(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ehurtctl - storefront command line client

Usage:
  ehurtctl <command> [options]

Commands:
  catalog   Search the catalog by name and/or category
  cart      Show the current cart
  toggle    Add an item to the cart, or remove it if present
  qty       Set the quantity of a cart line
  submit    Submit the cart as an order
  status    Show (and optionally acknowledge) the submission outcome
  orders    List order history
  clone     Copy a past order into the cart
  payments  Show the payments summary

Examples:
  # Find an item and add it
  ehurtctl catalog -server http://localhost:8080 -name flour
  ehurtctl toggle -server http://localhost:8080 -item 1042

  # Bump the quantity and place the order
  ehurtctl qty -server http://localhost:8080 -item 1042 -n 5
  ehurtctl submit -server http://localhost:8080

  # Re-order last week's delivery
  ehurtctl clone -server http://localhost:8080 -order 2026-08-1234

Run 'ehurtctl <command> -h' for command-specific options.
`)
}

// newFlagSet creates a flag set with the flags every command shares.
func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&serverURL, "server", "http://localhost:8080", "storefront base URL")
	fs.StringVar(&account, "account", "", `Ehurt-Account header, e.g. id="u-1022";role=owner`)
	fs.StringVar(&token, "token", "", "bearer token for the Authorization header")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - minimal output")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&verbose, "v", false, "Verbose - show full request/response")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ehurtctl %s\n\nOptions:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) {
	fs.Parse(args)
	if noColor {
		disableColors()
	}
}

// === Commands ===

func runCatalog(args []string) {
	fs := newFlagSet("catalog", "catalog [options]")
	var name, category string
	fs.StringVar(&name, "name", "", "Name substring filter")
	fs.StringVar(&category, "category", "", "Exact category filter")
	parseFlags(fs, args)

	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	if category != "" {
		q.Set("category", category)
	}
	path := "/catalog"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := doRequest("GET", path, nil)
	if err != nil {
		fatal("Failed to fetch catalog: %v", err)
	}

	items, _ := resp["items"].([]interface{})
	if quiet {
		for _, it := range items {
			if m, ok := it.(map[string]interface{}); ok {
				fmt.Println(m["id"])
			}
		}
		return
	}

	printSuccess("%d item(s)", len(items))
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		fmt.Printf("  %s%v%s  %v  %s%v%s  %v\n",
			colorCyan, m["id"], colorReset, m["name"], colorGreen, m["price"], colorReset, m["category"])
	}
}

func runCart(args []string) {
	fs := newFlagSet("cart", "cart [options]")
	parseFlags(fs, args)

	resp, err := doRequest("GET", "/cart", nil)
	if err != nil {
		fatal("Failed to fetch cart: %v", err)
	}
	printCart(resp)
}

func runToggle(args []string) {
	fs := newFlagSet("toggle", "toggle -item ID [options]")
	var itemID string
	fs.StringVar(&itemID, "item", "", "Catalog item ID (required)")
	parseFlags(fs, args)

	if itemID == "" {
		fs.Usage()
		os.Exit(1)
	}

	resp, err := doRequest("POST", "/cart/items", map[string]interface{}{"item_id": itemID})
	if err != nil {
		fatal("Failed to toggle item: %v", err)
	}

	inCart, _ := resp["in_cart"].(bool)
	if quiet {
		fmt.Println(inCart)
		return
	}
	if inCart {
		printSuccess("Item %s added", itemID)
	} else {
		printSuccess("Item %s removed", itemID)
	}
	if c, ok := resp["cart"].(map[string]interface{}); ok {
		printCart(c)
	}
}

func runQty(args []string) {
	fs := newFlagSet("qty", "qty -item ID -n N [options]")
	var itemID string
	var quantity int
	fs.StringVar(&itemID, "item", "", "Catalog item ID (required)")
	fs.IntVar(&quantity, "n", 1, "Quantity; zero removes the line")
	parseFlags(fs, args)

	if itemID == "" {
		fs.Usage()
		os.Exit(1)
	}

	resp, err := doRequest("PUT", "/cart/items/"+url.PathEscape(itemID),
		map[string]interface{}{"quantity": quantity})
	if err != nil {
		fatal("Failed to set quantity: %v", err)
	}
	printCart(resp)
}

func runSubmit(args []string) {
	fs := newFlagSet("submit", "submit [options]")
	parseFlags(fs, args)

	resp, err := doRequest("POST", "/orders", nil)
	if err != nil {
		fatal("Failed to submit order: %v", err)
	}

	orderID, _ := resp["id"].(string)
	if quiet {
		fmt.Println(orderID)
		return
	}
	printSuccess("Order placed")
	fmt.Printf("  ID: %s%s%s\n", colorCyan, orderID, colorReset)
	if status, ok := resp["status"].(string); ok {
		fmt.Printf("  Status: %s\n", status)
	}
}

func runStatus(args []string) {
	fs := newFlagSet("status", "status [-ack] [options]")
	var ack bool
	fs.BoolVar(&ack, "ack", false, "Acknowledge a terminal result after showing it")
	parseFlags(fs, args)

	resp, err := doRequest("GET", "/orders/status", nil)
	if err != nil {
		fatal("Failed to fetch status: %v", err)
	}

	state, _ := resp["state"].(string)
	if quiet {
		fmt.Println(state)
	} else {
		switch state {
		case "succeeded":
			printSuccess("Submission succeeded")
			if id, ok := resp["order_id"].(string); ok && id != "" {
				fmt.Printf("  Order ID: %s%s%s\n", colorGreen, id, colorReset)
			}
		case "failed":
			printWarning("Submission failed")
			if e, ok := resp["error"].(map[string]interface{}); ok {
				fmt.Printf("  Class: %v\n", e["class"])
			}
		default:
			fmt.Printf("  State: %s%s%s\n", colorCyan, state, colorReset)
		}
	}

	if ack && (state == "succeeded" || state == "failed") {
		if _, err := doRequest("POST", "/orders/status/ack", nil); err != nil {
			fatal("Failed to acknowledge: %v", err)
		}
		printInfo("Acknowledged")
	}
}

func runOrders(args []string) {
	fs := newFlagSet("orders", "orders [options]")
	parseFlags(fs, args)

	resp, err := doRequest("GET", "/orders", nil)
	if err != nil {
		fatal("Failed to list orders: %v", err)
	}

	orders, _ := resp["orders"].([]interface{})
	if quiet {
		for _, o := range orders {
			if m, ok := o.(map[string]interface{}); ok {
				fmt.Println(m["id"])
			}
		}
		return
	}

	printSuccess("%d order(s)", len(orders))
	for _, o := range orders {
		m, ok := o.(map[string]interface{})
		if !ok {
			continue
		}
		lines, _ := m["items"].([]interface{})
		fmt.Printf("  %s%v%s  %v  %s%v%s  %d line(s)\n",
			colorCyan, m["id"], colorReset, m["issue_date"], colorYellow, m["status"], colorReset, len(lines))
	}
}

func runClone(args []string) {
	fs := newFlagSet("clone", "clone -order ID [options]")
	var orderID string
	fs.StringVar(&orderID, "order", "", "Past order ID (required)")
	parseFlags(fs, args)

	if orderID == "" {
		fs.Usage()
		os.Exit(1)
	}

	resp, err := doRequest("POST", "/orders/"+url.PathEscape(orderID)+"/clone", nil)
	if err != nil {
		fatal("Failed to clone order: %v", err)
	}
	printSuccess("Order %s copied into the cart", orderID)
	printCart(resp)
}

func runPayments(args []string) {
	fs := newFlagSet("payments", "payments [options]")
	parseFlags(fs, args)

	resp, err := doRequest("GET", "/payments/summary", nil)
	if err != nil {
		fatal("Failed to fetch payments summary: %v", err)
	}

	unpaid, _ := resp["unpaid_total"].(string)
	overdue, _ := resp["overdue_unpaid_total"].(string)
	if quiet {
		fmt.Println(unpaid)
		return
	}

	invoices, _ := resp["invoices"].([]interface{})
	overdueDocs, _ := resp["overdue"].([]interface{})
	printSuccess("%d invoice(s), %d overdue", len(invoices), len(overdueDocs))
	fmt.Printf("  Unpaid total: %s%s%s\n", colorYellow, unpaid, colorReset)
	if len(overdueDocs) > 0 {
		fmt.Printf("  Overdue unpaid: %s%s%s\n", colorRed, overdue, colorReset)
		for _, d := range overdueDocs {
			if m, ok := d.(map[string]interface{}); ok {
				fmt.Printf("    - %v  due %v  remaining %v\n", m["id"], m["payment_term"], m["remaining"])
			}
		}
	}
}

// printCart renders a cart snapshot returned by the server.
func printCart(snap map[string]interface{}) {
	if quiet {
		if total, ok := snap["total"].(string); ok {
			fmt.Println(total)
		}
		return
	}

	lines, _ := snap["lines"].([]interface{})
	if len(lines) == 0 {
		printInfo("Cart is empty")
		return
	}
	fmt.Printf("%sCart:%s\n", colorBold, colorReset)
	for _, l := range lines {
		m, ok := l.(map[string]interface{})
		if !ok {
			continue
		}
		fmt.Printf("  %s%v%s  x%v  @ %v\n", colorCyan, m["item_id"], colorReset, m["quantity"], m["unit_price"])
	}
	if total, ok := snap["total"].(string); ok {
		fmt.Printf("  Total: %s%s%s\n", colorGreen, total, colorReset)
	}
}

// === HTTP helpers ===

func doRequest(method, path string, body interface{}) (map[string]interface{}, error) {
	var reqBody io.Reader
	var reqJSON []byte

	if body != nil {
		var err error
		reqJSON, err = json.MarshalIndent(body, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(reqJSON)
	}

	reqURL := serverURL + path
	req, err := http.NewRequest(method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if account != "" {
		req.Header.Set("Ehurt-Account", account)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if verbose {
		printRequest(method, path, reqJSON)
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if verbose {
		printResponse(resp.StatusCode, respBody, duration)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if len(respBody) == 0 {
		return map[string]interface{}{}, nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return result, nil
}

// === Output helpers ===

func printRequest(method, path string, body []byte) {
	fmt.Printf("\n%s▶ REQUEST%s %s%s %s%s\n", colorYellow, colorReset, colorBold, method, path, colorReset)
	if body != nil {
		printJSON(body, "  ")
	}
}

func printResponse(status int, body []byte, duration time.Duration) {
	statusColor := colorGreen
	if status >= 400 {
		statusColor = colorRed
	}
	fmt.Printf("\n%s◀ RESPONSE%s %s%d%s (%v)\n", colorCyan, colorReset, statusColor, status, colorReset, duration)
	printJSON(body, "  ")
}

func printJSON(data []byte, prefix string) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, prefix, "  "); err != nil {
		fmt.Printf("%s%s\n", prefix, string(data))
		return
	}
	fmt.Println(pretty.String())
}

func printSuccess(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
	}
}

func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s⚠ %s%s\n", colorYellow, fmt.Sprintf(format, args...), colorReset)
}

func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("%s→ %s%s\n", colorGray, fmt.Sprintf(format, args...), colorReset)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
	os.Exit(1)
}
