package usecase

import (
	"context"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
)

// LinkPropertyUseCase - workflow "создать объект → привязать к клиенту".
// Привязка выполняется только против долговечного идентификатора; сбой
// привязки - частичный успех: объект существует сам по себе, вызывающий код
// получает заполненный LinkOutcome вместе с *domain.PartialFailure.
type LinkPropertyUseCase struct {
	api port.MarketplaceAPIPort
}

func NewLinkPropertyUseCase(api port.MarketplaceAPIPort) *LinkPropertyUseCase {
	return &LinkPropertyUseCase{api: api}
}

func (uc *LinkPropertyUseCase) Execute(ctx context.Context, clientID string, draft domain.PropertyDraft) (*domain.LinkOutcome, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "LinkProperty",
		"client_id": clientID,
	})

	workflow := domain.NewLinkWorkflow(clientID)
	if err := workflow.BeginCreate(); err != nil {
		return nil, err
	}

	propertyID, err := uc.api.CreateProperty(ctx, draft)
	if err != nil {
		ucLogger.Error("Property creation failed", err, nil)
		return nil, err
	}

	// Жесткое предусловие: attach никогда не выполняется против "заглушки"
	if err := workflow.MarkCreated(propertyID); err != nil {
		ucLogger.Error("Create returned a non-durable identifier, attach skipped", err, port.Fields{"property_id": propertyID})
		return nil, err
	}

	if err := workflow.BeginLink(); err != nil {
		return nil, err
	}

	if err := uc.api.AttachPropertyToClient(ctx, propertyID, clientID); err != nil {
		_ = workflow.FailLink()
		ucLogger.Warn("Attach failed; property exists standalone", port.Fields{
			"property_id": propertyID, "reason": err.Error(),
		})
		return &domain.LinkOutcome{
				PropertyID: propertyID,
				ParentID:   clientID,
				State:      workflow.State(),
			}, &domain.PartialFailure{
				Message: "property " + propertyID + " created but not attached to client " + clientID,
				Err:     err,
			}
	}

	if err := workflow.CompleteLink(); err != nil {
		return nil, err
	}

	ucLogger.Info("Property created and attached", port.Fields{"property_id": propertyID})
	return &domain.LinkOutcome{
		PropertyID: propertyID,
		ParentID:   clientID,
		State:      workflow.State(),
	}, nil
}
