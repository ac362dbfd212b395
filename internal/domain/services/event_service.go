package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dongliang3571/kanic-server/internal/domain/models"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/config"
	"github.com/dongliang3571/kanic-server/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// InterfaceEventService 定义账户事件发布接口
type InterfaceEventService interface {
	PublishAccountCreated(account *models.Account) error
	Close()
}

// AccountCreatedEvent 账户创建事件的消息体
type AccountCreatedEvent struct {
	AccountID  uint      `json:"account_id"`
	Email      string    `json:"email"`
	IsMechanic bool      `json:"is_mechanic"`
	MechanicID *uint     `json:"mechanic_id,omitempty"`
	DateJoined time.Time `json:"date_joined"`
}

// NewAccountCreatedEvent 根据账户构建事件
func NewAccountCreatedEvent(account *models.Account) AccountCreatedEvent {
	event := AccountCreatedEvent{
		AccountID:  account.ID,
		Email:      account.Email,
		IsMechanic: account.IsMechanic,
		DateJoined: account.DateJoined,
	}
	if account.Mechanic != nil {
		id := account.Mechanic.ID
		event.MechanicID = &id
	}
	return event
}

// MQTTEventService 通过 MQTT 发布账户事件
type MQTTEventService struct {
	Client       mqtt.Client
	Topic        string
	QoS          byte
	PublishMutex sync.Mutex
}

const mqttPublishTimeout = 3 * time.Second

var errPublishTimeout = errors.New("mqtt publish timed out")

// NewMQTTEventService 连接 MQTT 服务器并创建事件服务
func NewMQTTEventService(cfg *config.Config) (*MQTTEventService, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(true)
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warning("MQTT连接断开: %v", err)
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("已连接MQTT服务器: %s", cfg.MQTTBrokerURL)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return nil, fmt.Errorf("connect mqtt broker %s: timed out", cfg.MQTTBrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect mqtt broker %s: %w", cfg.MQTTBrokerURL, err)
	}

	return NewMQTTEventServiceWithClient(client, cfg.MQTTAccountTopic, cfg.MQTTQoS), nil
}

// NewMQTTEventServiceWithClient 使用已有客户端创建事件服务
func NewMQTTEventServiceWithClient(client mqtt.Client, topic string, qos byte) *MQTTEventService {
	return &MQTTEventService{
		Client: client,
		Topic:  topic,
		QoS:    qos,
	}
}

// PublishAccountCreated 发布账户创建事件
func (s *MQTTEventService) PublishAccountCreated(account *models.Account) error {
	payload, err := json.Marshal(NewAccountCreatedEvent(account))
	if err != nil {
		return err
	}

	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	token := s.Client.Publish(s.Topic, s.QoS, false, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		return errPublishTimeout
	}
	return token.Error()
}

// Close 断开 MQTT 连接
func (s *MQTTEventService) Close() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
}
