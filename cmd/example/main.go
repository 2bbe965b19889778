package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	public "github.com/quantfall/go-public"
)

func main() {
	// Load .env from project root (assuming we run from cmd/example or root)
	if err := godotenv.Load("../../.env"); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			godotenv.Load(".env")
		}
	}

	username := os.Getenv("PUBLIC_USERNAME")
	password := os.Getenv("PUBLIC_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("PUBLIC_USERNAME and PUBLIC_PASSWORD must be set")
	}

	client := public.NewClient(public.WithDebug(true))

	log.Printf("Attempting login for user: %s", username)
	if _, err := client.Login(public.LoginRequest{
		Username:   username,
		Password:   password,
		WaitFor2FA: true, // first login needs the SMS code
	}); err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Println("Login Successful!")

	number, err := client.GetAccountNumber()
	if err != nil {
		log.Fatalf("Failed to get account number: %v", err)
	}
	fmt.Printf("Account Number: %s\n", number)

	portfolio, err := client.GetPortfolio()
	if err != nil {
		log.Fatalf("Failed to get portfolio: %v", err)
	}
	fmt.Printf("Cash: %s\n", portfolio.Equity.Cash)
	for _, pos := range portfolio.Positions {
		fmt.Printf("  - %s (%s): %s shares, value %s\n",
			pos.Instrument.Symbol, pos.Instrument.Name, pos.Quantity, pos.CurrentValue)
	}
}
