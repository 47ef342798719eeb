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

package gmsl

import (
	"fmt"
)

// ErrTransport is returned by transports when a bus transaction fails.
type ErrTransport struct {
	Op   string
	Addr uint16
	Err  error
}

func (e ErrTransport) Error() string {
	return fmt.Sprintf("Register %s failed at 0x%04x: %s", e.Op, e.Addr, e.Err)
}

func (e ErrTransport) Unwrap() error {
	return e.Err
}
