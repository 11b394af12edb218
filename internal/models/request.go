// Package models - API request payloads accepted by the guarded endpoints.
//
// Validation Philosophy:
//   - Payloads are declared once as structs; `validate` tags are the field rules
//   - Optional fields are pointers with omitempty so a validated payload
//     re-encodes to exactly the fields the client sent
//   - Cross-field rules (date ordering, password confirmation) live with the
//     schema registry, not here
//   - No normalization: accepted values are stored as submitted
package models

import (
	"mime/multipart"
	"time"
)

// SignupRequest registers a new community member.
type SignupRequest struct {
	FirstName        string  `json:"firstName" validate:"required,max=50,ptname"`
	LastName         *string `json:"lastName,omitempty" validate:"omitempty,max=50,ptname"`
	Email            string  `json:"email" validate:"required,max=255,email"`
	Password         string  `json:"password" validate:"required,max=128,ptpassword"`
	ConfirmPassword  string  `json:"confirmPassword" validate:"required"`
	DateOfBirth      *string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Postcode         *string `json:"postcode,omitempty" validate:"omitempty,ukpostcode"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,intlphone"`
	GDPRConsent      bool    `json:"gdprConsent" validate:"accepted"`
	MarketingConsent *bool   `json:"marketingConsent,omitempty"`
}

// ProfileUpdateRequest changes an existing member profile. Only FirstName is required.
type ProfileUpdateRequest struct {
	FirstName             string   `json:"firstName" validate:"required,max=50,ptname"`
	LastName              *string  `json:"lastName,omitempty" validate:"omitempty,max=50,ptname"`
	Email                 *string  `json:"email,omitempty" validate:"omitempty,max=255,email"`
	Bio                   *string  `json:"bio,omitempty" validate:"omitempty,max=500,pttext"`
	Location              *string  `json:"location,omitempty" validate:"omitempty,max=100,pttext"`
	DateOfBirth           *string  `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Postcode              *string  `json:"postcode,omitempty" validate:"omitempty,ukpostcode"`
	NIF                   *string  `json:"nif,omitempty" validate:"omitempty,nif"`
	NationalInsurance     *string  `json:"nationalInsurance,omitempty" validate:"omitempty,ukni"`
	Interests             []string `json:"interests,omitempty" validate:"omitempty,max=10,dive,max=30,ptkeyword"`
	GDPRConsent           *bool    `json:"gdprConsent,omitempty"`
	DataProcessingConsent *bool    `json:"dataProcessingConsent,omitempty"`
}

// EventCreationRequest publishes a community event.
type EventCreationRequest struct {
	Title                 string           `json:"title" validate:"required,min=5,max=100,pttext"`
	TitlePortuguese       *string          `json:"titlePortuguese,omitempty" validate:"omitempty,max=100,pttext"`
	Description           string           `json:"description" validate:"required,min=10,max=2000,pttext"`
	DescriptionPortuguese *string          `json:"descriptionPortuguese,omitempty" validate:"omitempty,max=2000,pttext"`
	EventType             string           `json:"eventType" validate:"required,oneof=online in_person hybrid"`
	CulturalCategory      *string          `json:"culturalCategory,omitempty" validate:"omitempty,oneof=festival cultural_celebration religious_celebration food_wine music_concert dance_event art_exhibition language_exchange business_networking educational sports family_event community_gathering charity_fundraiser academic other"`
	PortugueseCelebration *string          `json:"portugueseCelebration,omitempty" validate:"omitempty,oneof=festa_de_sao_joao festa_de_santo_antonio festa_de_sao_pedro festa_dos_tabuleiros carnaval festa_da_flor festa_do_avante festa_das_vindimas natal pascoa dia_de_portugal dia_da_independencia_brasil dia_da_consciencia_negra festa_junina festa_de_iemanja festa_do_divino other none"`
	Location              *string          `json:"location,omitempty" validate:"omitempty,max=200,ptaddress"`
	Postcode              *string          `json:"postcode,omitempty" validate:"omitempty,ukpostcode"`
	VirtualLink           *string          `json:"virtualLink,omitempty" validate:"omitempty,max=500,http_url"`
	StartDatetime         time.Time        `json:"startDatetime" validate:"required"`
	EndDatetime           time.Time        `json:"endDatetime" validate:"required"`
	MaxAttendees          *int             `json:"maxAttendees,omitempty" validate:"omitempty,min=1,max=1000"`
	Price                 *float64         `json:"price" validate:"required,min=0,max=1000"`
	Currency              *string          `json:"currency,omitempty" validate:"omitempty,oneof=GBP EUR USD"`
	Tags                  []string         `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=30,ptkeyword"`
	AgeRestriction        *AgeRestriction  `json:"ageRestriction,omitempty"`
	OrganizerContact      OrganizerContact `json:"organizerContact" validate:"required"`
	RequiresApproval      *bool            `json:"requiresApproval,omitempty"`
	GDPRConsent           bool             `json:"gdprConsent" validate:"accepted"`
}

type AgeRestriction struct {
	MinimumAge *int `json:"minimumAge,omitempty" validate:"omitempty,min=0,max=100"`
	MaximumAge *int `json:"maximumAge,omitempty" validate:"omitempty,min=0,max=100"`
}

type OrganizerContact struct {
	Name  string  `json:"name" validate:"required,min=2,max=100,ptname"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,intlphone"`
}

// BusinessSubmissionRequest lists a business in the community directory.
type BusinessSubmissionRequest struct {
	Name                  string   `json:"name" validate:"required,min=2,max=100,businessname"`
	NamePortuguese        *string  `json:"namePortuguese,omitempty" validate:"omitempty,max=100,businessname"`
	Description           string   `json:"description" validate:"required,min=10,max=1000,pttext"`
	Address               string   `json:"address" validate:"required,min=5,max=200,ptaddress"`
	Postcode              string   `json:"postcode" validate:"required,ukpostcode"`
	Phone                 string   `json:"phone" validate:"required,intlphone"`
	Email                 string   `json:"email" validate:"required,max=255,email"`
	Website               *string  `json:"website,omitempty" validate:"omitempty,max=255,http_url"`
	OwnerName             string   `json:"ownerName" validate:"required,min=2,max=100,ptname"`
	YearEstablished       int      `json:"yearEstablished" validate:"required,min=1800,notfutureyear"`
	BusinessCategory      string   `json:"businessCategory" validate:"required,oneof=restaurant cafe grocery bakery clothing services healthcare education entertainment professional_services cultural_center religious_organization sports_recreation travel_tourism media_communication other"`
	Keywords              []string `json:"keywords" validate:"required,max=10,dive,max=30,ptkeyword"`
	NIF                   *string  `json:"nif,omitempty" validate:"omitempty,nif"`
	GDPRConsent           bool     `json:"gdprConsent" validate:"accepted"`
	DataProcessingConsent *bool    `json:"dataProcessingConsent,omitempty"`
	MarketingConsent      *bool    `json:"marketingConsent,omitempty"`
}

// MessageRequest sends a direct message between members.
type MessageRequest struct {
	Content        string  `json:"content" validate:"required,max=1000,pttext"`
	MessageType    *string `json:"messageType,omitempty" validate:"omitempty,oneof=text image file"`
	ConversationID string  `json:"conversationId" validate:"required,uuid"`
	ReceiverID     string  `json:"receiverId" validate:"required,uuid"`
}

// FileUploadRequest is the multipart upload form. File is filled from the
// file part of the same name.
type FileUploadRequest struct {
	File    *FileDescriptor `json:"file" validate:"required"`
	Purpose string          `json:"purpose" validate:"required,oneof=avatar event_image business_document message_attachment"`
}

// FileDescriptor describes an uploaded file part. The content itself stays
// behind Handle and is only opened by whoever stores it.
type FileDescriptor struct {
	Name     string                `json:"name" validate:"required,max=255,filename"`
	Size     int64                 `json:"size" validate:"min=1,maxupload"`
	MimeType string                `json:"mimeType" validate:"required,oneof=image/jpeg image/png image/webp application/pdf text/plain"`
	Handle   *multipart.FileHeader `json:"-" validate:"-"`
}
