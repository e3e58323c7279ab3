package usecases

import (
	"context"

	"hoa-server/entities"
	"hoa-server/repositories"
)

type ContactInput struct {
	FirstName            string   `json:"firstName" validate:"required"`
	LastName             string   `json:"lastName" validate:"required"`
	Phone                string   `json:"phone" validate:"required"`
	Email                string   `json:"email" validate:"required,email"`
	BoardPositions       []string `json:"boardPositions" validate:"dive,oneof=President VP Secretary Treasurer Developer/Builder Other"`
	CommunityName        string   `json:"communityName"`
	CommunityLocation    string   `json:"communityLocation"`
	CommunityDescription string   `json:"communityDescription"`
	ReferralSource       string   `json:"referralSource"`
	NumberOfUnits        *int     `json:"numberOfUnits" validate:"omitnil,min=0"`
	PropertyType         string   `json:"propertyType" validate:"required,oneof='Single Family' Townhome Condo 'Mixed Use'"`
}

type ContactUseCase struct {
	repo     repositories.ContactRepository
	notifier Notifier
	inbox    string
}

// NewContactUseCase stores contact form submissions and, when inbox is
// set, emails a copy there.
func NewContactUseCase(repo repositories.ContactRepository, notifier Notifier, inbox string) *ContactUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ContactUseCase{repo: repo, notifier: notifier, inbox: inbox}
}

func (uc *ContactUseCase) Submit(ctx context.Context, in ContactInput) (*entities.ContactRequest, error) {
	if verr := validateStruct(in); verr.err() != nil {
		return nil, verr
	}
	positions := in.BoardPositions
	if positions == nil {
		positions = []string{}
	}
	req := &entities.ContactRequest{
		FirstName:            in.FirstName,
		LastName:             in.LastName,
		Phone:                in.Phone,
		Email:                in.Email,
		BoardPositions:       positions,
		CommunityName:        in.CommunityName,
		CommunityLocation:    in.CommunityLocation,
		CommunityDescription: in.CommunityDescription,
		ReferralSource:       in.ReferralSource,
		NumberOfUnits:        in.NumberOfUnits,
		PropertyType:         in.PropertyType,
	}
	if err := uc.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	if uc.inbox != "" {
		uc.notifier.Enqueue(entities.Notification{
			Channel: entities.ChannelEmail,
			To:      uc.inbox,
			Subject: "New contact request: " + req.CommunityName,
			Body:    contactSummary(req),
		})
	}
	return req, nil
}

func contactSummary(r *entities.ContactRequest) string {
	return "**" + r.FirstName + " " + r.LastName + "** (" + r.Email + ", " + r.Phone + ")\n\n" +
		"- Community: " + r.CommunityName + "\n" +
		"- Location: " + r.CommunityLocation + "\n" +
		"- Property type: " + r.PropertyType + "\n\n" +
		r.CommunityDescription
}
