// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ commit(bulk) ] -> [ kv store ]
//	         |
//	   [ lru cache ]
//	         |
//	   [ kv store ]
//
// Every contract owns a flat storage space addressed by 32-byte slots.
// Values are opaque bytes, usually rlp encoded by the builtin/solidity helpers.
package state
