package worker

import (
	"VidTube/internal/event"
	"VidTube/internal/model"
	"VidTube/internal/repository"
	"VidTube/internal/storage"
	"VidTube/internal/testutil"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubStorage struct {
	released []string
	err      error
}

func (s *stubStorage) Store(ctx context.Context, localPath string) (storage.MediaAsset, error) {
	return storage.MediaAsset{}, errors.New("not supported")
}

func (s *stubStorage) Release(ctx context.Context, url string) error {
	if s.err != nil {
		return s.err
	}
	s.released = append(s.released, url)
	return nil
}

func TestDecide(t *testing.T) {
	assert.Equal(t, actionAck, decide(nil))
	assert.Equal(t, actionAck, decide(gorm.ErrDuplicatedKey))
	assert.Equal(t, actionDrop, decide(ErrMalformed))
	assert.Equal(t, actionRequeue, decide(errors.New("timeout")))
}

func TestVideoViews(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "alice")
	video := testutil.CreateVideo(t, db, owner.ID, "v", true)
	handle := VideoViews(repository.NewVideoRepository(db, nil, time.Minute))

	body, err := json.Marshal(event.VideoViewMessage{VideoID: video.ID})
	require.NoError(t, err)
	require.NoError(t, handle(context.Background(), body))
	require.NoError(t, handle(context.Background(), body))

	var stored model.Video
	require.NoError(t, db.First(&stored, video.ID).Error)
	assert.Equal(t, uint64(2), stored.Views)

	assert.ErrorIs(t, handle(context.Background(), []byte("{bad")), ErrMalformed)
	assert.ErrorIs(t, handle(context.Background(), []byte(`{}`)), ErrMalformed)
}

func TestMediaRelease(t *testing.T) {
	media := &stubStorage{}
	handle := MediaRelease(media, time.Second)

	body, err := json.Marshal(event.MediaReleaseMessage{URL: "https://cdn.example.com/a.mp4", Reason: "timeout"})
	require.NoError(t, err)
	require.NoError(t, handle(context.Background(), body))
	assert.Equal(t, []string{"https://cdn.example.com/a.mp4"}, media.released)

	media.err = errors.New("still down")
	err = handle(context.Background(), body)
	assert.Equal(t, actionRequeue, decide(err))

	assert.ErrorIs(t, handle(context.Background(), []byte(`{"reason":"x"}`)), ErrMalformed)
}

type recordingAck struct {
	acked    int
	nacked   int
	requeued int
}

func (r *recordingAck) Ack(tag uint64, multiple bool) error {
	r.acked++
	return nil
}

func (r *recordingAck) Nack(tag uint64, multiple, requeue bool) error {
	r.nacked++
	if requeue {
		r.requeued++
	}
	return nil
}

func (r *recordingAck) Reject(tag uint64, requeue bool) error {
	return r.Nack(tag, false, requeue)
}

type republished struct {
	queue   string
	body    string
	attempt int
}

type recordingPublisher struct {
	sent []republished
	err  error
}

func (p *recordingPublisher) publish(queue string, body []byte, headers amqp.Table) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, republished{queue: queue, body: string(body), attempt: attempts(headers)})
	return nil
}

func testPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, DeadLetterQueue: "dead"}
}

func failing(err error) HandlerFunc {
	return func(ctx context.Context, body []byte) error { return err }
}

func TestProcess_AckAndDrop(t *testing.T) {
	pub := &recordingPublisher{}

	ack := &recordingAck{}
	process(context.Background(), "q", amqp.Delivery{Acknowledger: ack, Body: []byte("{}")}, failing(nil), testPolicy(), pub.publish)
	assert.Equal(t, 1, ack.acked)

	ack = &recordingAck{}
	process(context.Background(), "q", amqp.Delivery{Acknowledger: ack}, failing(gorm.ErrDuplicatedKey), testPolicy(), pub.publish)
	assert.Equal(t, 1, ack.acked)

	ack = &recordingAck{}
	process(context.Background(), "q", amqp.Delivery{Acknowledger: ack}, failing(ErrMalformed), testPolicy(), pub.publish)
	assert.Equal(t, 1, ack.nacked)
	assert.Zero(t, ack.requeued)
	assert.Empty(t, pub.sent)
}

func TestProcess_RetriesThenDeadLetters(t *testing.T) {
	pub := &recordingPublisher{}
	handle := failing(errors.New("access denied"))
	headers := amqp.Table{}

	// 永久性失败的消息最多处理MaxAttempts次
	for i := 0; i < 3; i++ {
		ack := &recordingAck{}
		process(context.Background(), "q", amqp.Delivery{Acknowledger: ack, Body: []byte("m"), Headers: headers}, handle, testPolicy(), pub.publish)
		assert.Equal(t, 1, ack.acked)
		assert.Zero(t, ack.requeued)
		headers = amqp.Table{HeaderAttempts: int32(pub.sent[len(pub.sent)-1].attempt)}
	}

	require.Len(t, pub.sent, 3)
	assert.Equal(t, republished{queue: "q", body: "m", attempt: 1}, pub.sent[0])
	assert.Equal(t, republished{queue: "q", body: "m", attempt: 2}, pub.sent[1])
	assert.Equal(t, republished{queue: "dead", body: "m", attempt: 3}, pub.sent[2])
}

func TestProcess_RepublishFailureRequeues(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("channel closed")}
	ack := &recordingAck{}
	process(context.Background(), "q", amqp.Delivery{Acknowledger: ack}, failing(errors.New("timeout")), testPolicy(), pub.publish)
	assert.Zero(t, ack.acked)
	assert.Equal(t, 1, ack.requeued)
}

func TestAttempts(t *testing.T) {
	assert.Equal(t, 0, attempts(nil))
	assert.Equal(t, 2, attempts(amqp.Table{HeaderAttempts: int32(2)}))
	assert.Equal(t, 4, attempts(amqp.Table{HeaderAttempts: int64(4)}))
	assert.Equal(t, 0, attempts(amqp.Table{HeaderAttempts: "x"}))
}
