// Package logger provides a small factory over log/slog with
// environment-driven configuration and typed attribute helpers shared by the
// notification engine.
//
//	log := logger.New(logger.WithService("notify"), logger.WithLevel(slog.LevelDebug))
//	log.Info("dispatch complete", logger.NotificationID(id), logger.UserID(userID))
package logger
