// Package notifier formats offers and delivers them to a Telegram channel.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"olx-telegram-bot/internal/config"
	"olx-telegram-bot/internal/models"
)

const (
	fallbackCity     = "Неизвестный город"
	fallbackDistrict = "Неизвестный район"
	fallbackMapsURL  = "https://maps.google.com"
)

// Media is the optional visual attachment for an offer: a passthrough
// remote URL or locally composed image bytes. Nil means text-only.
type Media struct {
	URL   string
	Bytes []byte
}

// Sender is the slice of the Telegram bot API the dispatcher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot       Sender
	channelID int64

	maxDescLen  int
	delays      []int
	rateLimiter *rate.Limiter

	fallbackPrice    string
	fallbackLocation string
	fallbackTime     string
	buttonLabel      string
}

func New(bot Sender, cfg *config.Config) *Telegram {
	return &Telegram{
		bot:              bot,
		channelID:        cfg.TelegramChannelID,
		maxDescLen:       cfg.MaxDescriptionLength,
		delays:           cfg.MessageDelaySeconds,
		rateLimiter:      rate.NewLimiter(rate.Every(time.Second), 1),
		fallbackPrice:    cfg.FallbackPrice,
		fallbackLocation: cfg.FallbackLocation,
		fallbackTime:     cfg.FallbackTime,
		buttonLabel:      cfg.OfferButtonLabel,
	}
}

// Send delivers one offer notification. Transport failures are logged and
// reported as false, never propagated. After a successful send a
// randomized pacing delay is observed so the channel's rate limits are
// respected.
func (t *Telegram) Send(ctx context.Context, offer models.Offer, media *Media) bool {
	if err := t.rateLimiter.Wait(ctx); err != nil {
		return false
	}

	caption := t.formatMessage(offer)
	msg := t.buildChattable(offer, caption, media)

	if _, err := t.bot.Send(msg); err != nil {
		slog.Error("Error sending message", "offer_id", offer.ID, "error", err)
		return false
	}

	t.pace(ctx)
	return true
}

func (t *Telegram) buildChattable(offer models.Offer, caption string, media *Media) tgbotapi.Chattable {
	switch {
	case media == nil:
		msg := tgbotapi.NewMessage(t.channelID, caption)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if kb, ok := t.offerKeyboard(offer); ok {
			msg.ReplyMarkup = kb
		}
		return msg
	case media.URL != "":
		photo := tgbotapi.NewPhoto(t.channelID, tgbotapi.FileURL(media.URL))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeHTML
		if kb, ok := t.offerKeyboard(offer); ok {
			photo.ReplyMarkup = kb
		}
		return photo
	default:
		file := tgbotapi.FileBytes{Name: fmt.Sprintf("collage-%d.jpg", offer.ID), Bytes: media.Bytes}
		photo := tgbotapi.NewPhoto(t.channelID, file)
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeHTML
		if kb, ok := t.offerKeyboard(offer); ok {
			photo.ReplyMarkup = kb
		}
		return photo
	}
}

func (t *Telegram) offerKeyboard(offer models.Offer) (tgbotapi.InlineKeyboardMarkup, bool) {
	if offer.URL == "" {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(t.buttonLabel, offer.URL),
		),
	)
	return kb, true
}

func (t *Telegram) formatMessage(offer models.Offer) string {
	return fmt.Sprintf(
		"🏘 <b>%s</b>\n\n<i>%s</i>\n\n📍 <a href='%s'>%s</a>\n💵 <b>%s</b> | <b>%s</b>",
		t.cleanText(offer.Title),
		t.cleanText(offer.Description),
		t.locationURL(offer),
		t.locationName(offer),
		t.price(offer),
		t.publishedTime(offer),
	)
}

func (t *Telegram) price(offer models.Offer) string {
	if label, ok := offer.PriceLabel(); ok {
		return label
	}
	return t.fallbackPrice
}

func (t *Telegram) locationName(offer models.Offer) string {
	if offer.Location == nil {
		return t.fallbackLocation
	}
	city := fallbackCity
	if offer.Location.City != nil && offer.Location.City.Name != "" {
		city = offer.Location.City.Name
	}
	district := fallbackDistrict
	if offer.Location.District != nil && offer.Location.District.Name != "" {
		district = offer.Location.District.Name
	}
	return city + "/" + district
}

func (t *Telegram) locationURL(offer models.Offer) string {
	if offer.Map == nil || offer.Map.Lat == 0 || offer.Map.Lon == 0 {
		return fallbackMapsURL
	}
	return fmt.Sprintf("http://maps.google.com/maps?q=loc:%v,%v", offer.Map.Lat, offer.Map.Lon)
}

func (t *Telegram) publishedTime(offer models.Offer) string {
	if offer.LastRefreshTime == "" {
		return t.fallbackTime
	}
	ts, err := offer.RefreshedAt()
	if err != nil {
		return t.fallbackTime
	}
	return ts.Format("15:04 | 02.01.2006")
}

// cleanText strips any HTML markup and caps the length, appending an
// ellipsis marker when truncated.
func (t *Telegram) cleanText(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err == nil {
		s = doc.Text()
	}
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > t.maxDescLen {
		s = string(runes[:t.maxDescLen]) + "..."
	}
	return s
}

func (t *Telegram) pace(ctx context.Context) {
	if len(t.delays) == 0 {
		return
	}
	delay := time.Duration(t.delays[rand.Intn(len(t.delays))]) * time.Second
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
