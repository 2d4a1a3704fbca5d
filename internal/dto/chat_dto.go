package dto

import (
	"ai-reportdraft-be/pkg/orchestrator"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Message  string                `json:"message"`
	Metadata orchestrator.Metadata `json:"metadata"`
}
