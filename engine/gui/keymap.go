package gui

import "github.com/Carmen-Shannon/oxy-frontier/engine/input"

// shiftedDigits maps Key0..Key9 to their shifted characters on a US layout.
const shiftedDigits = ")!@#$%^&*("

var punctuation = map[input.Key][2]byte{
	input.KeyApostrophe:   {'\'', '"'},
	input.KeyComma:        {',', '<'},
	input.KeyMinus:        {'-', '_'},
	input.KeyPeriod:       {'.', '>'},
	input.KeySlash:        {'/', '?'},
	input.KeySemicolon:    {';', ':'},
	input.KeyEqual:        {'=', '+'},
	input.KeyLeftBracket:  {'[', '{'},
	input.KeyBackslash:    {'\\', '|'},
	input.KeyRightBracket: {']', '}'},
	input.KeyGraveAccent:  {'`', '~'},
}

// CharForKey maps a key press to the ASCII character it types. Letters are upper case when
// exactly one of shift and caps lock is active; every other key only honors shift.
//
// Parameters:
//   - k: the pressed key
//   - st: the input state carrying modifiers and caps lock
//
// Returns:
//   - byte: the typed character
//   - bool: false if the key does not type a character
func CharForKey(k input.Key, st *input.InputState) (byte, bool) {
	shift := st.Shift()
	switch {
	case k.IsLetter():
		c := byte('a' + (k - input.KeyA))
		if shift != st.CapsLock {
			c -= 'a' - 'A'
		}
		return c, true
	case k.IsDigit():
		if shift {
			return shiftedDigits[k-input.Key0], true
		}
		return byte('0' + (k - input.Key0)), true
	case k == input.KeySpace:
		return ' ', true
	}
	if p, ok := punctuation[k]; ok {
		if shift {
			return p[1], true
		}
		return p[0], true
	}
	return 0, false
}
