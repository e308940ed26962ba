package runtime

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-relay/domain/event"
)

func TestPresence_Broadcasts_To_Every_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	presence := NewPresence(slog.Default(), registry, testDeliveryTimeout)
	registry.OnChange(presence.RegistryChanged)

	// Given an anonymous spectator already connected
	spectator, spectatorSink := recordedHandle("")
	registry.Register(spectator)

	// When an identified user connects
	alice, aliceSink := recordedHandle("alice")
	registry.Register(alice)

	// Then everyone, the anonymous connection included, sees the update
	spectatorEvents := spectatorSink.Events()
	req.Len(spectatorEvents, 1)
	update, ok := spectatorEvents[0].(event.PresenceUpdate)
	req.True(ok)
	req.Equal([]string{"alice"}, update.OnlineUserIDs)

	req.Len(aliceSink.Events(), 1)
}

func TestPresence_Disconnect_Broadcasts_Offline_Transition(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	presence := NewPresence(slog.Default(), registry, testDeliveryTimeout)
	registry.OnChange(presence.RegistryChanged)

	alice, _ := recordedHandle("alice")
	bob, bobSink := recordedHandle("bob")
	registry.Register(alice)
	registry.Register(bob)

	// When alice's only handle goes away
	registry.Unregister(alice)

	// Then the last broadcast bob received no longer lists her
	events := bobSink.Events()
	req.NotEmpty(events)
	last, ok := events[len(events)-1].(event.PresenceUpdate)
	req.True(ok)
	req.Equal([]string{"bob"}, last.OnlineUserIDs)
}

func TestPresence_MultiDevice_Disconnect_Keeps_User_Online(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	presence := NewPresence(slog.Default(), registry, testDeliveryTimeout)
	registry.OnChange(presence.RegistryChanged)

	tab, _ := recordedHandle("alice")
	phone, phoneSink := recordedHandle("alice")
	registry.Register(tab)
	registry.Register(phone)

	// When one of two devices disconnects
	registry.Unregister(tab)

	// Then the remaining device still sees alice online
	events := phoneSink.Events()
	req.NotEmpty(events)
	last, ok := events[len(events)-1].(event.PresenceUpdate)
	req.True(ok)
	req.Equal([]string{"alice"}, last.OnlineUserIDs)
}
