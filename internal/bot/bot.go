// internal/bot/bot.go
package bot

import (
	"context"
	"fmt"
	"strings"

	"baniya/internal/domain"
	"baniya/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const helpText = "💰 *Baniya.ai*\n\n" +
	"Commands:\n" +
	"`/recommend grocery=5000 dining=3000` — best credit cards for your monthly spend\n" +
	"`/cards` — the card catalog\n" +
	"`/fund` — your Shaadi fund\n" +
	"`/add 120.50` — add savings to the fund\n" +
	"`/sales [platform]` — upcoming sales"

const maxCardsListed = 20

type Recommender interface {
	Recommend(ctx context.Context, profile domain.SpendingProfile) ([]domain.ScoredRecommendation, error)
	Cards() ([]domain.CardOffer, string, error)
}

type Fund interface {
	Get(ctx context.Context) (domain.FundSummary, error)
	Add(ctx context.Context, amount float64) (domain.FundSummary, error)
}

type SalesFeed interface {
	Predictions(platform string) []domain.SalePrediction
}

// Sender is the part of *tgbotapi.BotAPI the bot needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	recommend Recommender
	fund      Fund
	sales     SalesFeed
	log       *zap.Logger
	printer   *message.Printer
}

func New(rec Recommender, fund Fund, sales SalesFeed, log *zap.Logger) *Bot {
	return &Bot{
		recommend: rec,
		fund:      fund,
		sales:     sales,
		log:       log,
		printer:   message.NewPrinter(language.English),
	}
}

// Run answers updates until ctx is done or the channel closes.
func (b *Bot) Run(ctx context.Context, api Sender, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handle(ctx, api, update.Message)
		}
	}
}

func (b *Bot) handle(ctx context.Context, api Sender, msg *tgbotapi.Message) {
	log := b.log.With(zap.Int64("chat_id", msg.Chat.ID))
	ctx = logger.WithContext(ctx, log)

	reply := b.Reply(ctx, msg.Text)
	log.Info("message handled", zap.String("text", msg.Text))

	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	out.ParseMode = tgbotapi.ModeMarkdown
	if _, err := api.Send(out); err != nil {
		log.Error("send reply failed", zap.Error(err))
	}
}

// Reply builds the answer for one incoming message.
func (b *Bot) Reply(ctx context.Context, text string) string {
	cmd, ok := Parse(text)
	if !ok {
		return "Unknown command. Send /help"
	}

	var (
		reply string
		err   error
	)
	switch cmd.Name {
	case "start", "help":
		reply = helpText
	case "recommend":
		reply, err = b.handleRecommend(ctx, cmd.Args)
	case "cards":
		reply, err = b.handleCards()
	case "fund":
		reply, err = b.handleFund(ctx)
	case "add":
		reply, err = b.handleAdd(ctx, cmd.Args)
	case "sales":
		reply = b.handleSales(cmd.Args)
	default:
		reply = "Unknown command. Send /help"
	}

	if err != nil {
		logger.FromContext(ctx, b.log).Warn("command failed", zap.String("command", cmd.Name), zap.Error(err))
		return "❌ " + userMessage(err)
	}
	return reply
}

func (b *Bot) handleRecommend(ctx context.Context, args []string) (string, error) {
	profile, err := ParseProfile(args)
	if err != nil {
		return "", err
	}
	recs, err := b.recommend.Recommend(ctx, profile)
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "📭 No matching cards yet. Add spending in more categories.", nil
	}

	lines := []string{"💳 *Top cards for you*"}
	for i, r := range recs {
		lines = append(lines, fmt.Sprintf("\n%d. *%s* (%s) — %d%% match", i+1, r.Card.Name, r.Card.Bank, r.MatchScore))
		lines = append(lines, fmt.Sprintf("   Save ~%s/yr • %s", b.rupees(r.EstimatedSavings), r.Reason))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) handleCards() (string, error) {
	cards, _, err := b.recommend.Cards()
	if err != nil {
		return "", err
	}
	lines := []string{"🏦 *Card catalog*"}
	for i, c := range cards {
		if i == maxCardsListed {
			lines = append(lines, fmt.Sprintf("…and %d more", len(cards)-i))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s: %s, fee %s", c.Name, c.CashbackRate, c.AnnualFee))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) handleFund(ctx context.Context) (string, error) {
	sum, err := b.fund.Get(ctx)
	if err != nil {
		return "", err
	}
	if sum.Transactions == 0 {
		return "💍 Your Shaadi fund is empty. Add savings with `/add 120.50`", nil
	}
	return fmt.Sprintf("💍 *Shaadi fund*: %s from %d additions", b.rupees(sum.TotalSaved), sum.Transactions), nil
}

func (b *Bot) handleAdd(ctx context.Context, args []string) (string, error) {
	amount, err := ParseAmount(args)
	if err != nil {
		return "", err
	}
	sum, err := b.fund.Add(ctx, amount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Added %s. Fund total: %s", b.rupees(amount), b.rupees(sum.TotalSaved)), nil
}

func (b *Bot) handleSales(args []string) string {
	platform := strings.Join(args, " ")
	preds := b.sales.Predictions(platform)
	if len(preds) == 0 {
		if platform == "" {
			return "📭 No upcoming sales"
		}
		return fmt.Sprintf("📭 No upcoming sales for *%s*", platform)
	}

	lines := []string{"🛍 *Upcoming sales*"}
	for _, p := range preds {
		lines = append(lines, fmt.Sprintf("- %s *%s*: %s → %s, %s off (%s confidence)",
			p.Platform, p.EventName, p.StartDate, p.EndDate, p.ExpectedDiscount, p.Confidence))
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) rupees(v float64) string {
	return b.printer.Sprintf("₹%.2f", v)
}

// userMessage keeps internal details out of chat.
func userMessage(err error) string {
	switch domain.CodeOf(err) {
	case domain.CodeInvalidInput:
		return err.Error()
	case domain.CodeCatalogUnavailable:
		return "the card catalog is unavailable right now"
	default:
		return "something went wrong, try again later"
	}
}
