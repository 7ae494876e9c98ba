package rabbitmq

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/streadway/amqp"
)

// InitRabbitMQ 初始化RabbitMQ连接
func InitRabbitMQ(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// DeclareQueues 声明持久化队列，有就不用创建（幂等）
func DeclareQueues(conn *amqp.Connection, queues ...string) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	for _, q := range queues {
		// durable=true，RabbitMQ重启后队列本身不会消失
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return err
		}
	}
	return nil
}

// Publisher 把消息序列化成JSON投递到指定队列
type Publisher interface {
	Publish(ctx context.Context, queue string, msg interface{}) error
}

type amqpPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
}

func NewPublisher(conn *amqp.Connection) Publisher {
	return &amqpPublisher{conn: conn}
}

// Publish 发布消息：1、序列化 2、为每一条消息建立一个临时channel，消息之间互不影响 3、持久化投递
func (p *amqpPublisher) Publish(ctx context.Context, queue string, msg interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	ch, err := p.conn.Channel()
	p.mu.Unlock()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		"",    // exchange默认交换机
		queue, // routing key，就是队列名
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
}
