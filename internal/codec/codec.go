// Package codec turns plaintext secrets into their stored form and back.
//
// Two codecs exist. Legacy is the historical scheme: the plaintext plus a
// fixed marker, base64 encoded. It is obfuscation, not encryption; anyone
// can reverse it. Sealed encrypts with AES-GCM under a key derived from a
// vault passphrase and still reads everything Legacy wrote.
//
// Decoding never fails. A stored value that cannot be reversed is returned
// unchanged with ok=false, so secrets saved in plain form by older clients
// stay readable.
package codec

// SecretCodec is implemented by Legacy and Sealed.
type SecretCodec interface {
	// Encode returns the stored representation of plaintext.
	Encode(plaintext string) (string, error)
	// Decode returns the plaintext for stored. ok is false when stored could
	// not be reversed and is returned as-is.
	Decode(stored string) (plaintext string, ok bool)
}
