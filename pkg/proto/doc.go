//
//  Copyright 2023 PayPal Inc.
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

/*
Package proto implements the nethub wire framing.

Every frame carries a two byte header followed by the body

	+--------+--------+------------------------------+
	| L (u8) | T (u8) | body (L bytes)               |
	+--------+--------+------------------------------+

L counts only the bytes that follow the type byte, so a frame occupies
L + 2 bytes on the wire and its body can never exceed 255 bytes.

Frame types

	0x00  SetAddress  body = 8 byte address
	0x01  Data        body = 8 byte address || payload (payload <= 247 bytes)
	0x02  Ack         body = empty
	0x03  Nack        body = empty

Addresses are opaque 64 bit values, encoded little endian. For a Data frame
sent by a client the address names the destination; for a Data frame
forwarded by the hub it names the source.

A client sends SetAddress to claim an address and Data to request routing,
and must reply with Ack after fully processing every Data frame the hub
forwards to it. The hub answers each Data submission with exactly one Ack
(delivered) or Nack (nobody was listening).
*/
package proto
