package wiimote

import "golang.org/x/crypto/blake2b"

// ExtensionKey is the derived stream-cipher key used to obscure extension
// register reads when encryption is enabled. Wiimote extensions use a small
// proprietary transform rather than a standard block cipher, so it is
// implemented here on the standard library.
type ExtensionKey struct {
	key  [8]byte
	seed [8]byte
}

// GenerateKey derives an ExtensionKey from the 16-byte seed written into the
// register window's encryption-key-data area: each byte of the seed's first
// half is rotated left by one bit and then has the matching byte of the
// second half added to it; the second half is also kept as the key's seed.
func GenerateKey(seed [16]byte) ExtensionKey {
	var k ExtensionKey
	for i := 0; i < 8; i++ {
		k.key[i] = (seed[i] << 1) | (seed[i] >> 7)
		k.key[i] += seed[8+i]
	}
	for i := 0; i < 8; i++ {
		k.seed[i] = seed[8+i]
	}
	return k
}

// Encrypt applies the address-parameterised stream cipher to buf in place.
// addr is the absolute register-window offset of buf[0]; each byte's
// keystream value depends on its absolute position so that encrypting the
// same bytes at a different address produces different ciphertext.
func Encrypt(buf []byte, key ExtensionKey, addr uint16) {
	for i := range buf {
		pos := int(addr) + i
		ks := key.key[pos%8] ^ key.seed[pos%8]
		buf[i] = (buf[i] ^ ks) + key.seed[pos%8]
	}
}

// Fingerprint returns a short, non-reversible digest of a derived key
// suitable for trace logging (comparing "did the key change" across ticks)
// without ever printing key material.
func Fingerprint(key ExtensionKey) string {
	buf := make([]byte, 0, 16)
	buf = append(buf, key.key[:]...)
	buf = append(buf, key.seed[:]...)
	sum := blake2b.Sum256(buf)
	return string(hexDigits(sum[:6]))
}

func hexDigits(b []byte) []byte {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0xf]
	}
	return out
}
