// Package worker 消费RabbitMQ队列中的异步任务：播放数累加和媒体文件释放重试
package worker

import (
	"VidTube/internal/event"
	"VidTube/internal/repository"
	"VidTube/internal/storage"
	"VidTube/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// ErrMalformed 消息无法解析，重试也没有用
var ErrMalformed = errors.New("malformed message")

// HandlerFunc 处理一条消息体
type HandlerFunc func(ctx context.Context, body []byte) error

type action int

const (
	actionAck action = iota
	actionDrop
	actionRequeue
)

// decide 根据处理结果决定如何“确认”消息：坏消息直接丢弃，重复键视为重复消费，其他错误重试
func decide(err error) action {
	switch {
	case err == nil:
		return actionAck
	case errors.Is(err, ErrMalformed):
		return actionDrop
	case repository.IsDuplicateKey(err):
		return actionAck
	default:
		return actionRequeue
	}
}

// VideoViews 播放事件：1、views+1 2、删除该视频的缓存
func VideoViews(videos repository.VideoRepository) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		var msg event.VideoViewMessage
		if err := json.Unmarshal(body, &msg); err != nil || msg.VideoID == 0 {
			return fmt.Errorf("%w: %s", ErrMalformed, string(body))
		}
		if err := videos.IncrementViews(ctx, msg.VideoID); err != nil {
			return err
		}
		// 缓存里的播放数已经过期
		if err := videos.DeleteVideoCache(ctx, msg.VideoID); err != nil {
			logger.Log.WithField("videoID", msg.VideoID).WithError(err).Warn("删除视频缓存失败")
		}
		return nil
	}
}

// MediaRelease 重试释放媒体文件，timeout限制每一次对象存储调用
func MediaRelease(media storage.MediaStorage, timeout time.Duration) HandlerFunc {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return func(ctx context.Context, body []byte) error {
		var msg event.MediaReleaseMessage
		if err := json.Unmarshal(body, &msg); err != nil || msg.URL == "" {
			return fmt.Errorf("%w: %s", ErrMalformed, string(body))
		}
		releaseCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return media.Release(releaseCtx, msg.URL)
	}
}

// HeaderAttempts 消息已经失败的次数，重新投递时写在消息头里
const HeaderAttempts = "x-attempts"

// RetryPolicy 失败的消息最多处理MaxAttempts次，之后转入DeadLetterQueue；每次重试前等待attempt*Backoff
type RetryPolicy struct {
	MaxAttempts     int
	Backoff         time.Duration
	DeadLetterQueue string
}

// DefaultRetryPolicy 每个队列默认重试5次
func DefaultRetryPolicy(deadLetterQueue string) RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Backoff: time.Second, DeadLetterQueue: deadLetterQueue}
}

// publishFunc 把消息体原样投递到某个队列
type publishFunc func(queue string, body []byte, headers amqp.Table) error

// Consume 消费一个队列直到ctx结束或连接断开：1、通过amqp.Connection建立channel 2、注册消费者，手动确认 3、逐条处理并Ack/Nack
func Consume(ctx context.Context, conn *amqp.Connection, queue string, handle HandlerFunc, policy RetryPolicy) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	// 一次只取一条未确认的消息，处理慢的消费者不会囤积消息
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}
	msgs, err := ch.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack: 手动确认
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}
	republish := func(target string, body []byte, headers amqp.Table) error {
		return ch.Publish("", target, false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Headers:      headers,
			DeliveryMode: amqp.Persistent,
		})
	}
	logger.Log.WithField("queue", queue).Info(" [*] 等待消息中. 按 CTRL+C 退出")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			// msgs不是切片，而是通道channel，连接断开时会被关闭
			if !ok {
				return errors.New("delivery channel closed")
			}
			process(ctx, queue, d, handle, policy, republish)
		}
	}
}

// attempts 读取消息头中的失败次数，AMQP表里的整数可能是不同宽度
func attempts(headers amqp.Table) int {
	switch v := headers[HeaderAttempts].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func process(ctx context.Context, queue string, d amqp.Delivery, handle HandlerFunc, policy RetryPolicy, republish publishFunc) {
	logCtx := logger.Log.WithField("queue", queue).WithField("redelivered", d.Redelivered)
	err := handle(ctx, d.Body)
	switch decide(err) {
	case actionAck:
		if err != nil {
			logCtx.WithError(err).Warn("处理消息时出现重复键错误，可能是一次重复消费，消息将被确认为成功。")
		}
		d.Ack(false)
	case actionDrop:
		logCtx.WithError(err).Error("消息JSON解析失败")
		// 对于无法解析的“坏消息”，应该通知mq处理失败，并直接删除
		d.Nack(false, false)
	case actionRequeue:
		retry(ctx, logCtx, queue, d, err, policy, republish)
	}
}

// retry 失败次数+1后重新投递到原队列并确认当前消息；次数用完则转入死信队列。投递失败时退回给mq重试
func retry(ctx context.Context, logCtx *logrus.Entry, queue string, d amqp.Delivery, cause error, policy RetryPolicy, republish publishFunc) {
	attempt := attempts(d.Headers) + 1
	logCtx = logCtx.WithField("attempt", attempt).WithError(cause)
	headers := amqp.Table{HeaderAttempts: int32(attempt)}

	target := queue
	if attempt >= policy.MaxAttempts {
		target = policy.DeadLetterQueue
		logCtx.Error("处理消息失败次数已达上限，转入死信队列")
	} else {
		logCtx.Error("处理消息失败，将进行重试")
		select {
		case <-ctx.Done():
			d.Nack(false, true)
			return
		case <-time.After(time.Duration(attempt) * policy.Backoff):
		}
	}

	if err := republish(target, d.Body, headers); err != nil {
		logCtx.WithError(err).Error("重新投递消息失败，退回队列")
		d.Nack(false, true)
		return
	}
	d.Ack(false)
}
