package climatehkb

import (
	"github.com/google/uuid"
)

var serialNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ha-homekit-climate-wrapper"))

// SerialNumber derives a stable serial number from the entity id so the
// accessory looks the same to HomeKit across restarts.
func SerialNumber(entityID string) string {
	return uuid.NewSHA1(serialNamespace, []byte(entityID)).String()
}
