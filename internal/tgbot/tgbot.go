package tgbot

import (
	"log/slog"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/transport/telegram"
	customMW "github.com/KotFed0t/finance_tracker/internal/transport/telegram/middleware"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type TGBot struct {
	bot         *tele.Bot
	ctrl        *telegram.Controller
	adminChatID int64
}

func New(cfg *config.Config, ctrl *telegram.Controller) *TGBot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b, ctrl: ctrl, adminChatID: cfg.Telegram.AdminChatID}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger(), customMW.AdminOnly(b.adminChatID))

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/help", b.ctrl.Start)

	b.bot.Handle("/summary", b.ctrl.Summary)
	b.bot.Handle("/portfolios", b.ctrl.Portfolios)
	b.bot.Handle("/price", b.ctrl.Price)
	b.bot.Handle("/stale", b.ctrl.Stale)
	b.bot.Handle("/budget", b.ctrl.Budget)
	b.bot.Handle("/report", b.ctrl.Report)

	// ручной запуск фоновых задач
	b.bot.Handle("/refresh", b.ctrl.Refresh)
	b.bot.Handle("/snapshot", b.ctrl.Snapshot)
	b.bot.Handle("/eod", b.ctrl.EndOfDay)
	b.bot.Handle("/sectors", b.ctrl.Sectors)

	b.bot.Handle("/add_portfolio", b.ctrl.AddPortfolio)
	b.bot.Handle("/add_holding", b.ctrl.AddHolding)
	b.bot.Handle("/delete_holding", b.ctrl.DeleteHolding)
	b.bot.Handle("/budget_add", b.ctrl.BudgetAdd)
}
