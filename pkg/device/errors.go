/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package device

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned for link, PHY or line-fault monitor identifiers
// the part does not have. Nothing is written when it is returned.
var ErrNotSupported = errors.New("Identifier not supported by the part")

// ErrNotApplicable is returned by diagnostic categories a part does not implement.
var ErrNotApplicable = errors.New("Diagnostic not applicable to the part")

// ErrUnknownPart is returned when the device id register holds an unexpected value.
type ErrUnknownPart struct {
	ID uint8
}

func (e ErrUnknownPart) Error() string {
	return fmt.Sprintf("Unknown part: device id 0x%02x", e.ID)
}

// ErrInvalidConfig is returned when init parameters fail validation.
type ErrInvalidConfig struct {
	What string
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("Invalid device configuration: %s", e.What)
}
