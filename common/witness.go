package common

import "fmt"

// CheckWitness checks witness of the passed identity. It returns
// ErrMissingSignature on fail.
func CheckWitness(env *Env, a Address) error {
	if !env.Witnesses.CheckWitness(a) {
		return fmt.Errorf("%w: %s", ErrMissingSignature, EncodeAddress(a))
	}
	return nil
}

// CheckAuthority checks that the signer is the expected authority and has
// signed the transaction.
func CheckAuthority(env *Env, authority, signer Address) error {
	if err := CheckWitness(env, signer); err != nil {
		return err
	}
	if !authority.Equals(signer) {
		return fmt.Errorf("%w: %s", ErrWrongAuthority, EncodeAddress(signer))
	}
	return nil
}

// AssertEqual checks that the passed identity equals the expected one.
func AssertEqual(expected, actual Address) error {
	if !expected.Equals(actual) {
		return fmt.Errorf("%w: expected %s, got %s", ErrIdentityMismatch, EncodeAddress(expected), EncodeAddress(actual))
	}
	return nil
}

// VerifyAddress reconstructs the derived address and compares it with the
// passed one.
func VerifyAddress(passed, authority Address, disambig byte, seeds ...[]byte) error {
	expected, err := ReconstructAddress(authority, disambig, seeds...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAddressMismatch, err)
	}
	if !expected.Equals(passed) {
		return fmt.Errorf("%w: expected %s, got %s", ErrAddressMismatch, EncodeAddress(expected), EncodeAddress(passed))
	}
	return nil
}

// DiscoverAndVerify is VerifyAddress for records being created: the
// disambiguation byte is searched for and returned.
func DiscoverAndVerify(passed, authority Address, seeds ...[]byte) (byte, error) {
	expected, disambig, err := DiscoverAddress(authority, seeds...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAddressMismatch, err)
	}
	if !expected.Equals(passed) {
		return 0, fmt.Errorf("%w: expected %s, got %s", ErrAddressMismatch, EncodeAddress(expected), EncodeAddress(passed))
	}
	return disambig, nil
}
