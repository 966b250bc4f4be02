// Package logger provides structured logging on top of zerolog.
//
// Components receive a *Logger and tag themselves with WithComponent so every
// retry attempt and poll observation can be traced back to its source:
//
//	log := logger.New(&logger.Config{Level: "info", Format: "json"}, "twitter-to-kafka")
//	log.WithComponent("kafka.provisioner").Info("creating topics",
//	    logger.Fields(logger.FieldAttempt, 1, logger.FieldTopics, names))
package logger
