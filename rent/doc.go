/*
Package rent contains implementation of the rent program.

The holder of a space may list it for rent: price per second, minimum and
maximum lease duration and the latest timestamp any lease may last until.
Leases are paid upfront in the native currency. The listing record is
created on the first listing of the space and is kept forever, delisting
only resets the terms.

# Instructions

	0 SetRent(x, y i64, price, min, max, maxTimestamp u64, create bool)
	  - base, space metadata, rent listing, lessor (signer), lessor holding
	1 AcceptRent(x, y i64, price, duration u64)
	  - base, space metadata, rent listing, lessee (signer), lessor,
	    lessor holding
*/
package rent
