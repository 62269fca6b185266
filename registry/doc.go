/*
Package registry contains implementation of the neighborhood registry program.

Registry program keeps the base of the world, the list of its neighborhoods,
metadata of every neighborhood and of every space bound to a unique asset. It
also runs the space marketplace and issues per-neighborhood vouchers. Canvas
and rent programs read registry records by reconstructing their addresses
with the registry program identity.

# Instructions

The first byte of the instruction data is the operation tag, the rest is
the little-endian argument structure. Records must be passed in the order
listed below.

	0 InitBase
	  - base (signer), neighborhood list, payer (signer)
	1 InitNeighborhood(x, y i64, price u64, name [64]byte)
	  - base, neighborhood metadata, neighborhood list, batch-mint config,
	    batch-mint account, creator (signer), creator payment holding
	2 InitSpace(x, y i64)
	  - base, asset metadata, space metadata, mint, neighborhood metadata,
	    owner (signer), owner holding
	3 ChangeOffer(x, y i64, price u64, create bool)
	  - base, space metadata, owner (signer), owner holding, sell delegate
	4 AcceptOffer(x, y i64, price u64)
	  - base, neighborhood metadata, neighborhood creator, space metadata,
	    mint, buyer (signer), buyer holding, seller, seller holding,
	    sell delegate
	5 InitVoucherSystem(x, y i64)
	  - base, neighborhood metadata, creator (signer), mint authority
	    (signer), voucher mint, voucher source holding, voucher sink
	6 RevokeAuthorityPrivileges
	  - base, authority (signer)
	7 UpdateAuthority
	  - base, authority (signer), new authority
	8 ChangeNeighborhoodName(x, y i64, name [64]byte)
	  - base, neighborhood metadata, creator (signer)

# Privileges

Until privileges are revoked, the base authority creates neighborhoods for
free and without owning the batch-mint config. Revocation is permanent.
*/
package registry
