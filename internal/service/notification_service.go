package service

import (
	"encoding/json"
	"fmt"
	"time"

	"advoga/internal/models"
	"advoga/internal/ws"
)

type notificationStore interface {
	Create(n *models.Notification) error
}

// NotificationService records notifications and pushes them to connected
// lawyer sockets. It is the in-process half of the notification sink; email
// and WhatsApp delivery hang off the same records elsewhere.
type NotificationService struct {
	store notificationStore
	hub   *ws.LeadHub
}

func NewNotificationService(store notificationStore, hub *ws.LeadHub) *NotificationService {
	return &NotificationService{store: store, hub: hub}
}

func (s *NotificationService) Notify(lawyerID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.store.Create(&models.Notification{
		LawyerID: lawyerID,
		Type:     notifType,
		Title:    title,
		Body:     body,
		Data:     dataJSON,
	})
	if err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.PushToLawyer(lawyerID, map[string]interface{}{
			"type":  notifType,
			"title": title,
			"body":  body,
			"data":  data,
		})
	}
	return nil
}

// NotifyLeadOffer tells a lawyer a new exclusive lead is waiting for them.
func (s *NotificationService) NotifyLeadOffer(lawyerID uint, c *models.Case, expiresAt time.Time) error {
	title := "Novo lead exclusivo"
	body := fmt.Sprintf("Caso de %s (probabilidade %s). Exclusivo para voce ate %s.",
		c.Area, c.Probability, expiresAt.Format("02/01 15:04"))
	return s.Notify(lawyerID, "LEAD_OFFER", title, body, map[string]interface{}{
		"case_id":       c.ID,
		"area":          c.Area,
		"sub_area":      c.SubArea,
		"probability":   c.Probability,
		"quality_score": c.QualityScore(),
		"expires_at":    expiresAt,
	})
}

func (s *NotificationService) NotifyLeadExpired(lawyerID uint, caseID uint) error {
	return s.Notify(lawyerID, "LEAD_EXPIRED", "Lead expirado",
		"A janela de exclusividade do lead terminou.", map[string]interface{}{"case_id": caseID})
}
