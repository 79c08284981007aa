package payload

import (
	"encoding/json"
	"fmt"
)

// DecodeData unmarshals a stored parsed_data document back into the variant
// named by the content type. Signature material is not serialized, so decoded
// invoices cannot re-run key recovery.
func DecodeData(t ContentType, raw []byte) (Data, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var d Data
	switch t {
	case TypeBip21:
		d = &Bip21{}
	case TypeBolt11:
		d = &Bolt11{}
	case TypeLnurl:
		d = &Lnurl{}
	case TypeLightningAddress:
		d = &LightningAddress{}
	case TypeUnknown:
		d = &Unknown{}
	default:
		return nil, fmt.Errorf("unknown content type %q", t)
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, err
	}
	return d, nil
}
