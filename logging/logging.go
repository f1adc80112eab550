// Package logging wires structured logging for the simulation driver.
// The reducer itself stays a pure function and never holds a logger;
// cmd/simulate owns one and logs around calls to reducer.Tick and around
// AI strategy transitions, mirroring how the teacher's EventBus
// dispatched typed events but through logrus's leveled structured API.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a text-formatted logrus.Logger at the given level ("debug",
// "info", "warn", "error"); an unrecognized level falls back to info.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stdout
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	return log
}

// Tick logs a single reducer tick at debug level.
func Tick(log *logrus.Logger, tick int, actionCount int) {
	log.WithFields(logrus.Fields{
		"tick":    tick,
		"actions": actionCount,
	}).Debug("tick advanced")
}

// StrategyTransition logs an AI player's strategy FSM change at info
// level, the one AI event visible at the default -log-level of info.
func StrategyTransition(log *logrus.Logger, tick, playerID int, from, to string) {
	log.WithFields(logrus.Fields{
		"tick":      tick,
		"player_id": playerID,
		"strategy":  to,
		"from":      from,
	}).Info("ai strategy transition")
}

// Notification logs a reducer-raised user notification at warn level.
func Notification(log *logrus.Logger, tick int, text string) {
	log.WithFields(logrus.Fields{
		"tick": tick,
	}).Warn(text)
}

// Winner logs the match outcome at info level.
func Winner(log *logrus.Logger, tick int, playerID int) {
	log.WithFields(logrus.Fields{
		"tick":      tick,
		"player_id": playerID,
	}).Info("match decided")
}
