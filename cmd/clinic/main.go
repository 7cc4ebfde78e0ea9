package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/saudeviva/clinic-scheduler/internal/assistant"
	appconfig "github.com/saudeviva/clinic-scheduler/internal/config"
	"github.com/saudeviva/clinic-scheduler/internal/scheduling"
	"github.com/saudeviva/clinic-scheduler/internal/storage"
	"github.com/saudeviva/clinic-scheduler/pkg/logging"
)

// cli is the interactive front desk loop over the scheduling service.
type cli struct {
	service   *scheduling.Service
	assistant *assistant.Assistant
	in        *bufio.Scanner
}

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.NewText(cfg.LogLevel)

	service := scheduling.NewService(storage.NewFileStore(cfg.DataFile), logger, nil)

	var apptAssistant *assistant.Assistant
	if cfg.GeminiAPIKey != "" {
		llm, err := assistant.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer func() { _ = llm.Close() }()
		apptAssistant = assistant.New(llm, cfg.ClinicName, cfg.DoctorName, logger)
	}

	c := &cli{
		service:   service,
		assistant: apptAssistant,
		in:        bufio.NewScanner(os.Stdin),
	}
	c.run(cfg.ClinicName)
}

func (c *cli) run(clinicName string) {
	for {
		fmt.Printf("\n--- %s ---\n", clinicName)
		fmt.Println("1. Schedule appointment (natural language)")
		fmt.Println("2. Schedule appointment (manual)")
		fmt.Println("3. List scheduled appointments")
		fmt.Println("4. Cancel appointment")
		fmt.Println("5. Quit")

		switch c.prompt("Choose an option: ") {
		case "1":
			c.scheduleNatural()
		case "2":
			c.scheduleManual()
		case "3":
			c.list()
		case "4":
			c.cancel()
		case "5":
			fmt.Println("Thank you for using the scheduler. Goodbye!")
			return
		default:
			fmt.Println("Invalid option. Try again.")
		}
	}
}

func (c *cli) prompt(label string) string {
	fmt.Print(label)
	if !c.in.Scan() {
		return "5"
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *cli) scheduleNatural() {
	if c.assistant == nil {
		fmt.Println("Natural-language scheduling requires GEMINI_API_KEY to be set.")
		return
	}

	fmt.Println("\n--- Natural-Language Scheduling ---")
	text := c.prompt("Enter your request (e.g. 'Book John tomorrow at 10am'): ")

	extracted, err := c.assistant.Extract(context.Background(), text, time.Now())
	if err != nil || extracted == nil {
		fmt.Println("Sorry, I could not understand the request. Please try again.")
		return
	}

	fmt.Printf("Extracted: Patient: %s, Date: %s, Time: %s\n",
		extracted.Patient, extracted.Date, extracted.Time)
	if !strings.EqualFold(c.prompt("Is this correct? (y/n): "), "y") {
		fmt.Println("Scheduling aborted.")
		return
	}

	c.schedule(extracted.Patient, extracted.Date, extracted.Time)
}

func (c *cli) scheduleManual() {
	fmt.Println("\n--- Manual Scheduling ---")
	patient := c.prompt("Patient name: ")
	date := c.prompt("Date (YYYY-MM-DD): ")
	timeOfDay := c.prompt("Time (HH:MM): ")
	c.schedule(patient, date, timeOfDay)
}

func (c *cli) schedule(patient, date, timeOfDay string) {
	appt, err := c.service.Schedule(context.Background(), patient, date, timeOfDay)
	if err != nil {
		fmt.Printf("\n[ERROR] Could not schedule: %v\n", err)
		return
	}

	fmt.Printf("\n[SUCCESS] Appointment %d scheduled for %s.\n", appt.ID, appt.Patient)
	if c.assistant != nil {
		fmt.Println("\n--- Confirmation Message ---")
		fmt.Println(c.assistant.ConfirmationMessage(context.Background(), appt.Patient, appt.Start.Time))
		fmt.Println("----------------------------")
	}
}

func (c *cli) list() {
	fmt.Println("\n--- Scheduled Appointments ---")
	active, err := c.service.ListActive(context.Background())
	if err != nil {
		fmt.Printf("[ERROR] Could not list appointments: %v\n", err)
		return
	}
	if len(active) == 0 {
		fmt.Println("No appointments scheduled.")
		return
	}
	for _, appt := range active {
		fmt.Printf("ID: %d | Patient: %s | Date: %s\n",
			appt.ID, appt.Patient, appt.Start.Time.Format("02/01/2006 15:04"))
	}
}

func (c *cli) cancel() {
	fmt.Println("\n--- Cancel Appointment ---")
	id, err := strconv.Atoi(c.prompt("Enter the appointment ID to cancel: "))
	if err != nil {
		fmt.Println("[ERROR] Invalid ID. It must be a number.")
		return
	}

	appt, err := c.service.Cancel(context.Background(), id)
	if err != nil {
		fmt.Printf("[STATUS] %v\n", err)
		return
	}
	fmt.Printf("[STATUS] Appointment %d for %s cancelled.\n", appt.ID, appt.Patient)
}
