package scheduler

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/foundit-campus/foundit-api/config"
	"github.com/foundit-campus/foundit-api/databases"
	"github.com/foundit-campus/foundit-api/models"
	templates "github.com/foundit-campus/foundit-api/templates/html"
)

// Scheduler handles periodic background jobs for overdue item reminders
type Scheduler struct {
	cron       *cron.Cron
	ItemDB     databases.ItemDatabase
	Config     *config.Config
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(itemDB databases.ItemDatabase, cfg *config.Config) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		ItemDB:     itemDB,
		Config:     cfg,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Nudge finders holding items past the drop-off window daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.processOverdueItems)
	if err != nil {
		zap.S().Errorw("failed to register overdue reminder job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Overdue item scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Overdue item scheduler stopped")
}

// processOverdueItems finds items still with their finder past the drop-off
// window and emails each finder a reminder
func (s *Scheduler) processOverdueItems() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	zap.S().Infow("Running overdue reminder job", "instance", s.instanceID)

	items, err := s.ItemDB.Find(ctx, bson.M{"item.status": models.StatusWithFinder})
	if err != nil {
		zap.S().Errorw("failed to find items with finder", "error", err)
		return
	}

	now := time.Now()
	remindersSent := 0
	for _, item := range items {
		if !item.Overdue(now) {
			continue
		}
		s.sendOverdueReminder(item, now)
		remindersSent++
	}

	zap.S().Infow("Overdue reminder job complete",
		"itemsChecked", len(items),
		"remindersSent", remindersSent,
	)
}

func (s *Scheduler) sendOverdueReminder(item models.FoundItem, now time.Time) {
	if item.Details.Email == "" {
		return
	}

	daysHeld := int(math.Ceil(now.Sub(item.Details.CreatedAt.Time()).Hours() / 24))

	subject := "Reminder: drop off \"" + item.Details.Title + "\" at the guard gate - FoundIt"
	htmlContent := templates.RenderOverdueReminderEmail(item.Details.FoundByName, item.Details.Title, daysHeld, models.OverdueAfterDays)
	plainText := fmt.Sprintf("You have held %q for %d days. Please drop it off at the guard gate and mark it handed over in the app.", item.Details.Title, daysHeld)

	if err := s.sendEmail(item.Details.Email, item.Details.FoundByName, subject, htmlContent, plainText); err != nil {
		zap.S().Errorw("failed to send overdue reminder email", "error", err, "itemId", item.ID.Hex())
		return
	}

	zap.S().Infow("Sent overdue reminder email", "itemId", item.ID.Hex(), "daysHeld", daysHeld)
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	fromAddress := s.Config.GuardGateEmail
	if fromAddress == "" {
		fromAddress = "no-reply@foundit-campus.com"
	}
	from := mail.NewEmail("FoundIt", fromAddress)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(s.Config.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
