package player

import "chordfm/model"

// PreferenceNone marks an unset stored preference.
const PreferenceNone = "none"

// ChooseDefault maps (stored preference, connected-provider status) to the
// provider used when the user has not explicitly chosen one. Total and pure;
// the youtube fallback tier guarantees a provider is always chosen.
//
// A concrete spotify preference is honored only while the spotify account is
// connected; any other concrete preference needs no linked account to open
// externally and is honored unconditionally.
func ChooseDefault(preference string, status map[Provider]model.ConnectionStatus) Provider {
	if pref, ok := ParseProvider(preference); ok && preference != PreferenceNone {
		if pref != ProviderSpotify {
			return pref
		}
		if status[ProviderSpotify].Connected {
			return ProviderSpotify
		}
		return ProviderYoutube
	}

	if status[ProviderSpotify].Connected {
		return ProviderSpotify
	}
	return ProviderYoutube
}
