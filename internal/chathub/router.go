package chathub

import (
	"context"
	"strconv"
	"strings"
	"time"

	"dmchat/backend/internal/config"
	"dmchat/backend/internal/models"
	"dmchat/backend/internal/storage"

	"github.com/golang/glog"
	"github.com/samber/lo"
)

// IdentityChecker validates a recipient before anything is persisted.
type IdentityChecker interface {
	IdentityExists(ctx context.Context, id uint) (bool, error)
}

// Router persists a direct message and fans it out to every live handle of
// both participants. It owns no state: durability belongs to the store and
// the connection map to the Directory.
type Router struct {
	store      storage.MessageStore
	directory  *Directory
	identities IdentityChecker
	metrics    *Metrics
}

// NewRouter wires a router. identities and metrics may be nil.
func NewRouter(store storage.MessageStore, directory *Directory, identities IdentityChecker, metrics *Metrics) *Router {
	return &Router{
		store:      store,
		directory:  directory,
		identities: identities,
		metrics:    metrics,
	}
}

// Send delivers rawText from sender to the identity named by receiverRef.
//
// Blank text or a recipient that is not a valid identity reference drops
// the send silently: nil message, nil error, nothing stored or pushed.
// A store failure is returned and nothing is pushed. Push failures on
// individual handles are logged and never fail the call.
func (r *Router) Send(ctx context.Context, sender uint, receiverRef string, rawText string, now time.Time) (*models.Message, error) {
	text := NormalizeText(rawText)
	receiver, ok := ParseIdentity(receiverRef)
	if text == "" || !ok {
		glog.V(5).Infof("dropping send from %d to %q: blank text or bad recipient", sender, receiverRef)
		r.metrics.dropped()
		return nil, nil
	}

	if r.identities != nil {
		exists, err := r.identities.IdentityExists(ctx, receiver)
		if err != nil {
			return nil, err
		}
		if !exists {
			glog.V(5).Infof("dropping send from %d: unknown recipient %d", sender, receiver)
			r.metrics.dropped()
			return nil, nil
		}
	}

	// A session closing mid-send must not abort a write already under way.
	msg, err := r.store.AppendMessage(context.WithoutCancel(ctx), sender, receiver, text, now)
	if err != nil {
		return nil, err
	}
	r.metrics.persisted()

	r.fanOut(*msg)
	return msg, nil
}

func (r *Router) fanOut(msg models.Message) {
	targets := r.directory.ActiveHandles(msg.ReceiverID)
	if msg.SenderID != msg.ReceiverID {
		targets = append(targets, r.directory.ActiveHandles(msg.SenderID)...)
	}
	targets = lo.UniqBy(targets, func(c Client) string { return c.HandleID() })

	ev := models.NewDelivery(msg)
	for _, c := range targets {
		r.push(c, ev)
	}
}

func (r *Router) push(c Client, ev models.OutboundEvent) {
	defer func() {
		if p := recover(); p != nil {
			glog.Errorf("push to handle %s panicked: %v", c.HandleID(), p)
			r.metrics.pushFailed()
		}
	}()

	if err := c.Push(ev); err != nil {
		glog.Warningf("push of message %d to handle %s (user %d) failed: %v",
			ev.Message.ID, c.HandleID(), c.GetUserID(), err)
		r.metrics.pushFailed()
	}
}

// NormalizeText trims surrounding whitespace and cuts the result to the
// maximum message length in characters.
func NormalizeText(raw string) string {
	text := strings.TrimSpace(raw)
	if r := []rune(text); len(r) > config.MaxMessageLength {
		text = string(r[:config.MaxMessageLength])
	}
	return text
}

// ParseIdentity accepts a positive decimal identity reference.
func ParseIdentity(ref string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(ref), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
