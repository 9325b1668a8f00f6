package lexer

// Классы байтов. Фрагментам нужен только ASCII; всё >= 0x80 считается
// продолжением идентификатора.
const (
	clsIdentStart uint8 = 1 << iota
	clsDigit
	clsHex
)

var byteClass = func() (t [256]uint8) {
	for b := 'a'; b <= 'z'; b++ {
		t[b] |= clsIdentStart
	}
	for b := 'A'; b <= 'Z'; b++ {
		t[b] |= clsIdentStart
	}
	t['_'] |= clsIdentStart
	for b := '0'; b <= '9'; b++ {
		t[b] |= clsDigit | clsHex
	}
	for _, b := range "abcdefABCDEF" {
		t[b] |= clsHex
	}
	return t
}()

func isIdentStartByte(b byte) bool { return byteClass[b]&clsIdentStart != 0 }

func isIdentContinueByte(b byte) bool {
	return b >= 0x80 || byteClass[b]&(clsIdentStart|clsDigit) != 0
}

func isHex(b byte) bool { return byteClass[b]&clsHex != 0 }
